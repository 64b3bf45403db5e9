package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if INCENT_CONFIG is set
//  3. env (prefix INCENT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INCENT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: INCENT_ADDR, INCENT_COMMISSION_STEPS, ...
	// Map env keys like INCENT_COMMISSION_STEPS -> commission_steps (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("INCENT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "incent_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CommissionMin >= c.CommissionMax:
		return fmt.Errorf("%w: commission_min must be below commission_max", ErrInvalidConfig)
	case c.EffortMin >= c.EffortMax:
		return fmt.Errorf("%w: effort_min must be below effort_max", ErrInvalidConfig)
	case c.CommissionSteps < 2 || c.EffortSteps < 2:
		return fmt.Errorf("%w: grid steps must be at least 2", ErrInvalidConfig)
	case c.MaxGridSteps < c.CommissionSteps || c.MaxGridSteps < c.EffortSteps:
		return fmt.Errorf("%w: max_grid_steps must cover the default grid", ErrInvalidConfig)
	case c.HistorySize < 1:
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	case c.GridWorkers < 1:
		return fmt.Errorf("%w: grid_workers must be positive", ErrInvalidConfig)
	case c.OptimizerMaxIters < 1:
		return fmt.Errorf("%w: optimizer_max_iters must be positive", ErrInvalidConfig)
	}
	return nil
}
