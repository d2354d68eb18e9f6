package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"
)

// Config controls the HTTP API runtime behavior. Zero-valued address, batch,
// buffer and step fields fall back to defaults in New. The default profile
// is taken as given; start from DefaultConfig to get the model defaults.
type Config struct {
	Addr           string  `env:"WEALTHPATH_ADDR"`
	DBPath         string  `env:"WEALTHPATH_DB_PATH"`
	MaxBatch       int     `env:"WEALTHPATH_MAX_BATCH"`
	EventsBuffer   int     `env:"WEALTHPATH_EVENTS_BUFFER"`
	DefaultSavings float64 `env:"WEALTHPATH_DEFAULT_SAVINGS"`
	DefaultGoal    float64 `env:"WEALTHPATH_DEFAULT_GOAL"`
	SweepStep      float64 `env:"WEALTHPATH_SWEEP_STEP"`
}

// Defaults applied by New for zero-valued fields.
const (
	DefaultAddr         = "127.0.0.1:8790"
	DefaultMaxBatch     = 500
	DefaultEventsBuffer = 200
)

// DefaultConfig returns a Config carrying the model's default profile.
func DefaultConfig() Config {
	p := model.DefaultProfile()
	return Config{DefaultSavings: p.CurrentSavings, DefaultGoal: p.Goal}
}

// ConfigFromEnv overlays WEALTHPATH_* environment variables on base.
// Unset variables keep the base value.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if err := env.Parse(&cfg); err != nil {
		return base, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBatch < 1 {
		c.MaxBatch = DefaultMaxBatch
	}
	if c.EventsBuffer < 1 {
		c.EventsBuffer = DefaultEventsBuffer
	}
	if c.SweepStep <= 0 {
		c.SweepStep = projection.DefaultSweepStep
	}
	return c
}

func (c Config) defaultProfile() model.UserProfile {
	return model.UserProfile{CurrentSavings: c.DefaultSavings, Goal: c.DefaultGoal}
}
