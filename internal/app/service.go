// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/incent/internal/adapters/repository"
	"github.com/okian/incent/internal/domain/bestresponse"
	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/grid"
	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/internal/domain/payoff"
	"github.com/okian/incent/pkg/logger"
	"github.com/okian/incent/pkg/metrics"
)

// Service implements the API dependencies for the incentive model.
//
// All mutable state lives in an explicit struct guarded by mu; there are no
// ambient bound variables. The current record is the last successful point
// evaluation; rejected inputs never touch it.
type Service struct {
	mu sync.RWMutex

	// Core components
	calc      *payoff.Calculator
	evaluator *grid.Evaluator
	optimizer *bestresponse.Optimizer
	history   repository.History
	surfaces  *repository.SurfaceCache

	// Configuration
	domain            model.Domain
	commissionSteps   int
	effortSteps       int
	maxGridSteps      int
	defaults          model.Scenario
	effortCost        float64
	gridWorkers       int
	optimizerMaxIters int
	historySize       int

	// State
	started    bool
	current    repository.Record
	hasCurrent bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDomain sets the accepted input ranges.
func WithDomain(d model.Domain) Option {
	return func(s *Service) {
		if d.CommissionMin < d.CommissionMax && d.EffortMin < d.EffortMax {
			s.domain = d
		}
	}
}

// WithGridShape sets the default surface resolution.
func WithGridShape(commissionSteps, effortSteps int) Option {
	return func(s *Service) {
		if commissionSteps > 1 && effortSteps > 1 {
			s.commissionSteps = commissionSteps
			s.effortSteps = effortSteps
		}
	}
}

// WithMaxGridSteps caps per-request step overrides.
func WithMaxGridSteps(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.maxGridSteps = n
		}
	}
}

// WithDefaults sets the scenario evaluated on startup and used for omitted
// request fields.
func WithDefaults(sc model.Scenario) Option {
	return func(s *Service) {
		if sc.Curve != "" {
			s.defaults = sc
		}
	}
}

// WithEffortCost sets the per-unit effort cost of the agent objective.
func WithEffortCost(cost float64) Option {
	return func(s *Service) {
		if cost > 0 {
			s.effortCost = cost
		}
	}
}

// WithHistorySize bounds the in-memory evaluation history.
func WithHistorySize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithGridWorkers sets surface row parallelism.
func WithGridWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.gridWorkers = n
		}
	}
}

// WithOptimizerMaxIterations caps best-effort search iterations.
func WithOptimizerMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.optimizerMaxIters = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		domain:            model.DefaultDomain(),
		commissionSteps:   100,
		effortSteps:       100,
		maxGridSteps:      500,
		defaults:          model.Scenario{Commission: 0.5, Effort: 5.0, Curve: curve.Linear},
		effortCost:        1.0,
		gridWorkers:       runtime.NumCPU(),
		optimizerMaxIters: 500,
		historySize:       256,
		logger:            nil, // resolved on Start
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and performs the unconditional
// initial computation: the default scenario is evaluated and the default
// curve's surface is prebuilt before any request is served.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting incentive model service...")

	s.calc = payoff.New(payoff.WithEffortCost(s.effortCost))
	s.evaluator = grid.NewEvaluator(s.calc, grid.WithWorkers(s.gridWorkers))
	s.optimizer = bestresponse.New(s.calc, bestresponse.WithMaxIterations(s.optimizerMaxIters))
	s.history = repository.NewHistory(repository.WithCapacity(s.historySize))
	s.surfaces = repository.NewSurfaceCache()

	// Initial point evaluation at the defaults
	if err := s.domain.Validate(s.defaults); err != nil {
		return fmt.Errorf("default scenario invalid: %w", err)
	}
	rec := s.history.Add(ctx, s.defaults, s.calc.Metrics(s.defaults))
	s.current = rec
	s.hasCurrent = true
	metrics.RecordEvaluation()

	// Warm the default curve's surface
	if _, err := s.buildSurfaceLocked(ctx, s.defaults.Curve, s.commissionSteps, s.effortSteps); err != nil {
		return fmt.Errorf("initial surface build failed: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "incentive model service started",
		logger.Int("commissionSteps", s.commissionSteps),
		logger.Int("effortSteps", s.effortSteps),
		logger.Int("gridWorkers", s.gridWorkers),
		logger.String("defaultCurve", s.defaults.Curve.String()),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "incentive model service stopped")
}

// Evaluate validates and evaluates a scenario, records it in the history, and
// promotes it to the current state. Rejected inputs leave all state untouched.
func (s *Service) Evaluate(ctx context.Context, sc model.Scenario) (repository.Record, error) {
	if err := s.domain.Validate(sc); err != nil {
		metrics.RecordValidationFailure(violatedField(err))
		return repository.Record{}, err
	}
	// Validate accepted the curve, so Parse cannot fail; keep the canonical
	// kind so the record and the evaluation agree on the formula.
	sc.Curve, _ = curve.Parse(sc.Curve.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return repository.Record{}, ErrNotStarted
	}

	rec := s.history.Add(ctx, sc, s.calc.Metrics(sc))
	s.current = rec
	s.hasCurrent = true
	metrics.RecordEvaluation()

	s.logger.Debug(ctx, "scenario evaluated",
		logger.Float64("commission", sc.Commission),
		logger.Float64("effort", sc.Effort),
		logger.String("curve", sc.Curve.String()),
		logger.Float64("agentProfitPct", rec.Metrics.AgentProfitPercent),
		logger.Float64("companyProfitPct", rec.Metrics.CompanyProfitPercent),
	)
	return rec, nil
}

// Surface returns the profit surfaces for a curve, reusing the cache when the
// same curve and shape were already built. Zero step counts fall back to the
// configured grid shape.
func (s *Service) Surface(ctx context.Context, k curve.Kind, commissionSteps, effortSteps int) (*grid.Surface, error) {
	k, err := curve.Parse(k.String())
	if err != nil {
		metrics.RecordValidationFailure("curve")
		return nil, err
	}
	if commissionSteps <= 0 {
		commissionSteps = s.commissionSteps
	}
	if effortSteps <= 0 {
		effortSteps = s.effortSteps
	}
	if commissionSteps > s.maxGridSteps || effortSteps > s.maxGridSteps {
		return nil, fmt.Errorf("%w: cap is %d steps per axis", grid.ErrTooLarge, s.maxGridSteps)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.buildSurfaceLocked(ctx, k, commissionSteps, effortSteps)
}

// buildSurfaceLocked consults the cache and builds on miss. Callers hold mu.
func (s *Service) buildSurfaceLocked(ctx context.Context, k curve.Kind, commissionSteps, effortSteps int) (*grid.Surface, error) {
	if cached, ok := s.surfaces.Get(ctx, k, commissionSteps, effortSteps); ok {
		return cached, nil
	}

	start := time.Now()
	surface, err := s.evaluator.Build(ctx, k,
		grid.Axis{Min: s.domain.CommissionMin, Max: s.domain.CommissionMax, Steps: commissionSteps},
		grid.Axis{Min: s.domain.EffortMin, Max: s.domain.EffortMax, Steps: effortSteps},
	)
	if err != nil {
		metrics.RecordErrorByComponent("surface", "build_failed")
		return nil, err
	}

	metrics.RecordSurfaceBuild(k.String())
	metrics.RecordSurfaceBuildDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateGridCells(commissionSteps * effortSteps)
	s.surfaces.Put(ctx, surface)
	return surface, nil
}

// BestEffort runs the best-response search for a commission and curve over
// the configured effort domain.
func (s *Service) BestEffort(ctx context.Context, commission float64, k curve.Kind) (bestresponse.Result, error) {
	if err := s.domain.ValidateCommission(commission); err != nil {
		metrics.RecordValidationFailure("commission")
		return bestresponse.Result{}, err
	}
	k, err := curve.Parse(k.String())
	if err != nil {
		metrics.RecordValidationFailure("curve")
		return bestresponse.Result{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return bestresponse.Result{}, ErrNotStarted
	}

	start := time.Now()
	metrics.RecordOptimizeRun()
	res, err := s.optimizer.BestEffort(ctx, commission, k, s.domain.EffortMin, s.domain.EffortMax)
	metrics.RecordOptimizeDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordOptimizeFailure()
		metrics.RecordErrorByComponent("optimizer", "search_failed")
		return bestresponse.Result{}, err
	}
	if !res.Converged {
		metrics.RecordOptimizeFailure()
	}
	return res, nil
}

// Recent returns up to limit records from the evaluation history, newest first.
func (s *Service) Recent(ctx context.Context, limit int) []repository.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil
	}
	return s.history.Recent(ctx, limit)
}

// Current returns the last successful evaluation, if any.
func (s *Service) Current(_ context.Context) (repository.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

// Defaults returns the scenario used to seed the dashboard form.
func (s *Service) Defaults() model.Scenario {
	return s.defaults
}

// Bounds returns the accepted input domain.
func (s *Service) Bounds() model.Domain {
	return s.domain
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"commissionSteps": s.commissionSteps,
		"effortSteps":     s.effortSteps,
		"gridWorkers":     s.gridWorkers,
		"historySize":     s.historySize,
	}

	if s.started {
		historyLen := s.history.Len(ctx)
		stats["historyLength"] = historyLen
		stats["cachedSurfaces"] = s.surfaces.Len(ctx)
		if s.hasCurrent {
			stats["currentScenario"] = s.current.Scenario
			stats["currentMetrics"] = s.current.Metrics
		}
		metrics.UpdateHistorySize(historyLen)
	}

	return stats
}

// violatedField maps a validation error to its metrics label.
func violatedField(err error) string {
	switch {
	case errors.Is(err, model.ErrCommissionRange):
		return "commission"
	case errors.Is(err, model.ErrEffortRange):
		return "effort"
	case errors.Is(err, curve.ErrUnknownCurve):
		return "curve"
	default:
		return "unknown"
	}
}
