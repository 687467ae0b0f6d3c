package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RunSettings are the process-level settings that do not belong to a model.
type RunSettings struct {
	Seed    uint64 `env:"SREMIT_SEED" envDefault:"1234"`
	Threads int    `env:"SREMIT_THREADS" envDefault:"4"`
	Cache   string `env:"SREMIT_CACHE" envDefault:"sremit-cache.db"`
	Verbose bool   `env:"SREMIT_VERBOSE"`
}

// ParseEnv loads run settings from environment variables.
func ParseEnv() (RunSettings, error) {
	var settings RunSettings
	if err := env.Parse(&settings); err != nil {
		return settings, fmt.Errorf("parse env: %w", err)
	}
	if settings.Threads < 1 {
		return settings, fmt.Errorf("%w: SREMIT_THREADS must be positive, got %d", ErrInvalidParameter, settings.Threads)
	}
	return settings, nil
}
