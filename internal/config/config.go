package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./dev.db"`
	DataDir  string `env:"DATA_DIR" envDefault:"./data"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads environment variables and returns a populated Config.
// A local .env file is loaded best-effort first; production should use real
// env injection.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode, where migrations
// are applied automatically on start.
func (c Config) IsDev() bool {
	return c.AppEnv == "development"
}
