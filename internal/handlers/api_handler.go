package handlers

import (
	"errors"
	"fmt"
	"time"

	"geoboard/internal/logger"
	"geoboard/internal/models"
	"geoboard/internal/monitor"
	"geoboard/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the JSON API: the leaderboard feed and the legacy
// by-name submission endpoint.
type APIHandler struct {
	identity   *services.IdentityService
	scoreboard *services.ScoreboardService
	validate   *validator.Validate
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(identity *services.IdentityService, scoreboard *services.ScoreboardService) *APIHandler {
	return &APIHandler{
		identity:   identity,
		scoreboard: scoreboard,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the API routes with the Fiber app.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	apiRoutes := router.Group("/api")
	apiRoutes.Get("/leaderboard", h.HandleLeaderboard)
	apiRoutes.Post("/submit_entry", h.HandleSubmitEntry)
}

// HandleLeaderboard returns the ranked rows for the requested period
// (all by default).
func (h *APIHandler) HandleLeaderboard(c *fiber.Ctx) error {
	period, err := models.ParsePeriod(c.Query("period", string(models.PeriodAll)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "period must be one of all, today, week",
		})
	}

	rows, err := h.scoreboard.Leaderboard(period)
	if err != nil {
		logger.Log.Errorf("failed to query leaderboard for period %s: %v", period, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve leaderboard",
		})
	}
	return c.JSON(rows)
}

// SubmitEntryRequest is the legacy JSON submission body. Players are
// identified by display name; unknown names create a new player.
type SubmitEntryRequest struct {
	PlayerName string `json:"player_name" validate:"required,min=1,max=80"`
	Round1     int    `json:"round1" validate:"gte=0,lte=5000"`
	Round2     int    `json:"round2" validate:"gte=0,lte=5000"`
	Round3     int    `json:"round3" validate:"gte=0,lte=5000"`
}

// HandleSubmitEntry records a score for the named player, enforcing
// the same one-per-UTC-day gate as the form flow.
func (h *APIHandler) HandleSubmitEntry(c *fiber.Ctx) error {
	var req SubmitEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	player, err := h.identity.ResolveByName(req.PlayerName)
	if err != nil {
		logger.Log.Errorf("failed to resolve player %s: %v", req.PlayerName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not resolve player",
		})
	}

	entry, err := h.scoreboard.SubmitEntry(player, req.Round1, req.Round2, req.Round3)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDailyLimitReached):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Already submitted today",
			})
		case errors.Is(err, models.ErrScoreOutOfRange):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Scores must be between 0 and 5000",
			})
		default:
			logger.Log.Errorf("failed to record entry for player %s: %v", player.Name, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not record entry",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":       true,
		"entry_id": entry.ID,
		"total":    entry.TotalScore,
	})
}

// HandleHealth returns the liveness probe. It reports the current UTC
// time, plus the process uptime when metrics are enabled. mon may be nil.
func HandleHealth(mon *monitor.Monitor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if mon != nil {
			body["uptime"] = mon.Uptime().Round(time.Second).String()
		}
		return c.Status(fiber.StatusOK).JSON(body)
	}
}
