// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CommissionMin and CommissionMax bound the commission domain.
	CommissionMin float64 `koanf:"commission_min"`
	CommissionMax float64 `koanf:"commission_max"`

	// EffortMin and EffortMax bound the effort domain.
	EffortMin float64 `koanf:"effort_min"`
	EffortMax float64 `koanf:"effort_max"`

	// CommissionSteps and EffortSteps set the surface grid resolution.
	CommissionSteps int `koanf:"commission_steps"`
	EffortSteps     int `koanf:"effort_steps"`

	// MaxGridSteps caps per-request step overrides on GET /surface.
	MaxGridSteps int `koanf:"max_grid_steps"`

	// DefaultCommission, DefaultEffort, and DefaultCurve seed the dashboard form.
	DefaultCommission float64 `koanf:"default_commission"`
	DefaultEffort     float64 `koanf:"default_effort"`
	DefaultCurve      string  `koanf:"default_curve"`

	// EffortCost is the per-unit cost of effort in the agent objective.
	EffortCost float64 `koanf:"effort_cost"`

	// HistorySize bounds the in-memory evaluation history.
	HistorySize int `koanf:"history_size"`

	// GridWorkers sets the number of goroutines used to fill surface rows.
	GridWorkers int `koanf:"grid_workers"`

	// OptimizerMaxIters caps Nelder-Mead iterations for best-effort search.
	OptimizerMaxIters int `koanf:"optimizer_max_iters"`
}

// New creates a Config populated with defaults. The grid shape and domain
// bounds default to the canonical 100x100 surface over commission [0.1, 0.9]
// and effort [0, 10].
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		CommissionMin:     0.1,
		CommissionMax:     0.9,
		EffortMin:         0,
		EffortMax:         10,
		CommissionSteps:   100,
		EffortSteps:       100,
		MaxGridSteps:      500,
		DefaultCommission: 0.5,
		DefaultEffort:     5.0,
		DefaultCurve:      "linear",
		EffortCost:        1.0,
		HistorySize:       256,
		GridWorkers:       runtime.NumCPU(),
		OptimizerMaxIters: 500,
	}
	return c
}
