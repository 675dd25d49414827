package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"EVENTS_PORT" envDefault:"8090"`
	DataDir       string `env:"EVENTS_DATA_DIR" envDefault:"./data"`
	SessionSecret string `env:"EVENTS_SESSION_SECRET" envDefault:"change-me-in-production-32bytes!"`
	SessionMaxAge int    `env:"EVENTS_SESSION_MAX_AGE" envDefault:"86400"`
	AdminUsername string `env:"EVENTS_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"EVENTS_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminEmail    string `env:"EVENTS_ADMIN_EMAIL" envDefault:"admin@college.edu"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return cfg, nil
}
