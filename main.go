package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"geoboard/internal/clock"
	"geoboard/internal/config"
	"geoboard/internal/handlers"
	"geoboard/internal/logger"
	"geoboard/internal/middleware"
	"geoboard/internal/models"
	"geoboard/internal/monitor"
	"geoboard/internal/repositories"
	"geoboard/internal/services"
	"geoboard/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logger.Init()
	cfg := config.Load()

	// --- Storage ---
	playerRepo, entryRepo, err := buildRepositories(cfg)
	if err != nil {
		logger.Log.Fatalf("failed to initialize storage: %v", err)
	}

	// --- Event publishing (optional) ---
	var publisher events.Publisher
	if cfg.RabbitMQ.URL != "" {
		client, err := events.NewClient(events.Config{URL: cfg.RabbitMQ.URL})
		if err != nil {
			logger.Log.Fatalf("failed to initialize RabbitMQ client: %v", err)
		}
		defer client.Close()
		publisher = client

		if err := client.ConsumeScoreEvents(func(msg amqp.Delivery) error {
			logger.Log.Infof("score event (tag %d): %s", msg.DeliveryTag, msg.Body)
			return nil
		}); err != nil {
			logger.Log.Warnf("failed to start score event consumer: %v", err)
		}
	}

	// --- Metrics (optional) ---
	var mon *monitor.Monitor
	if cfg.Metrics.Enabled {
		mon = monitor.New("geoboard")
	}

	// --- Services ---
	identityService := services.NewIdentityService(playerRepo)
	scoreboardService := services.NewScoreboardService(entryRepo, clock.New(), publisher, mon)

	// --- Fiber app ---
	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(fiberlogger.New())

	store := session.New(session.Config{
		KeyLookup:  "cookie:" + cfg.Session.CookieName,
		Expiration: cfg.Session.Expiration,
	})
	app.Use(middleware.LoadPlayer(store, identityService))

	// --- Routes ---
	pageHandler := handlers.NewPageHandler(identityService, scoreboardService, store, mon)
	pageHandler.RegisterRoutes(app)

	apiHandler := handlers.NewAPIHandler(identityService, scoreboardService)
	apiHandler.RegisterRoutes(app)

	app.Get("/health", handlers.HandleHealth(mon))
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Log.Infof("starting server on %s", cfg.ListenAddr)
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Log.Fatalf("server failed to start: %v", err)
		}
	}()

	<-quit
	logger.Log.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Log.Errorf("error during shutdown: %v", err)
	}
	logger.Log.Info("server stopped")
}

// buildRepositories wires the configured store: in-memory for local
// hacking, GORM over sqlite or postgres otherwise.
func buildRepositories(cfg *config.Config) (repositories.PlayerRepository, repositories.EntryRepository, error) {
	if cfg.Database.Driver == "memory" {
		players := repositories.NewMockPlayerRepository()
		return players, repositories.NewMockEntryRepository(players), nil
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.Player{}, &models.ScoreEntry{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repositories.NewGORMPlayerRepository(db), repositories.NewGORMEntryRepository(db), nil
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// TranslateError maps driver-specific uniqueness violations to
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
