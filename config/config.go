/*
Package config loads server configuration from the environment.

PURPOSE:
  One flat struct for everything the server needs at startup. Values come
  from environment variables (a .env file is loaded by main before this
  runs) with sensible defaults for local development.

VARIABLES:
  LEAVE_ADDR             Listen address (default :8080)
  LEAVE_DB_PATH          SQLite database path (default leave.db, ":memory:" works)
  LEAVE_LOG_LEVEL        logrus level: debug, info, warn, error (default info)
  LEAVE_ALLOWED_ORIGINS  Comma-separated CORS origins
  LEAVE_READ_TIMEOUT     HTTP read timeout (default 15s)
  LEAVE_WRITE_TIMEOUT    HTTP write timeout (default 15s)
  LEAVE_IDLE_TIMEOUT     HTTP idle timeout (default 60s)
*/
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the server configuration.
type Config struct {
	Addr           string        `env:"LEAVE_ADDR" env-default:":8080"`
	DBPath         string        `env:"LEAVE_DB_PATH" env-default:"leave.db"`
	LogLevel       string        `env:"LEAVE_LOG_LEVEL" env-default:"info"`
	AllowedOrigins []string      `env:"LEAVE_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:8080"`
	ReadTimeout    time.Duration `env:"LEAVE_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `env:"LEAVE_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `env:"LEAVE_IDLE_TIMEOUT" env-default:"60s"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}
	return &cfg, nil
}
