package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, populated from environment
// variables with sensible defaults for local development.
type Config struct {
	ListenAddr string
	Database   DatabaseConfig
	Session    SessionConfig
	RabbitMQ   RabbitMQConfig
	Metrics    MetricsConfig
}

type DatabaseConfig struct {
	// Driver selects the backing store: "sqlite" (default), "postgres",
	// or "memory" for an in-process store with no persistence.
	Driver string
	DSN    string
}

type SessionConfig struct {
	CookieName string
	Expiration time.Duration
}

type RabbitMQConfig struct {
	// URL of the broker. Empty disables event publishing entirely.
	URL string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "geoboard.db")
	viper.SetDefault("SESSION_COOKIE", "geoboard_session")
	viper.SetDefault("SESSION_EXPIRATION", "168h")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.AutomaticEnv()

	return &Config{
		ListenAddr: viper.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: viper.GetString("DATABASE_DRIVER"),
			DSN:    viper.GetString("DATABASE_DSN"),
		},
		Session: SessionConfig{
			CookieName: viper.GetString("SESSION_COOKIE"),
			Expiration: viper.GetDuration("SESSION_EXPIRATION"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}
}
