package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	CatalogDir   string        `env:"CATALOG_DIR"`
	AnswerDelay  time.Duration `env:"ANSWER_DELAY" envDefault:"2s"`
	RevealDelay  time.Duration `env:"REVEAL_DELAY" envDefault:"1500ms"`
	DoorDelay    time.Duration `env:"DOOR_DELAY" envDefault:"500ms"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.AnswerDelay < 0 || cfg.RevealDelay < 0 || cfg.DoorDelay < 0 {
		return nil, fmt.Errorf("delays must not be negative")
	}
	return &cfg, nil
}
