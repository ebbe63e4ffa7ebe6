package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, loaded from HEROHUB_* env vars.
type Config struct {
	Addr     string `env:"HEROHUB_ADDR" envDefault:":8080"`
	DBPath   string `env:"HEROHUB_DB_PATH"`
	LogLevel string `env:"HEROHUB_LOG_LEVEL" envDefault:"info"`

	JWTSecret string        `env:"HEROHUB_JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer string        `env:"HEROHUB_JWT_ISSUER" envDefault:"heroleague"`
	JWTTTL    time.Duration `env:"HEROHUB_JWT_TTL" envDefault:"24h"`

	// Third-party hero directory.
	HeroAPIURL     string        `env:"HEROHUB_HERO_API_URL" envDefault:"https://superheroapi.com/api"`
	HeroAPIKey     string        `env:"HEROHUB_HERO_API_KEY" envDefault:"demo-key"`
	HeroAPITimeout time.Duration `env:"HEROHUB_HERO_API_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
