// internal/config/config.go
//
// Runtime configuration, parsed from environment variables into a typed
// struct. main loads .env first (development convenience), then calls
// Load; everything downstream takes the struct, never os.Getenv.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBPath       string `env:"DB_PATH" envDefault:"./data/motle.db"`
	WordsDir     string `env:"WORDS_DIR"` // empty → embedded word lists
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Production   bool   `env:"PRODUCTION"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"motle_token"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	// Defaults applied when a client starts a game without an explicit
	// language or length.
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultLength   int    `env:"DEFAULT_LENGTH" envDefault:"5"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultLength < 4 || cfg.DefaultLength > 8 {
		return nil, fmt.Errorf("DEFAULT_LENGTH must be 4..8, got %d", cfg.DefaultLength)
	}
	return cfg, nil
}
