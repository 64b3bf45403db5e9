// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/incent/internal/adapters/repository"
	"github.com/okian/incent/internal/domain/bestresponse"
	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/grid"
	"github.com/okian/incent/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Evaluate validates and evaluates a single scenario.
	Evaluate(ctx context.Context, sc model.Scenario) (repository.Record, error)

	// Surface returns the profit surfaces for a curve at the given resolution.
	Surface(ctx context.Context, k curve.Kind, commissionSteps, effortSteps int) (*grid.Surface, error)

	// BestEffort searches the effort that maximizes the agent's profit.
	BestEffort(ctx context.Context, commission float64, k curve.Kind) (bestresponse.Result, error)

	// Read operations expose evaluation history and defaults.
	Recent(ctx context.Context, limit int) []repository.Record
	Current(ctx context.Context) (repository.Record, bool)
	Defaults() model.Scenario
	Bounds() model.Domain
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	evaluateHandler  *EvaluateHandler
	surfaceHandler   *SurfaceHandler
	optimizeHandler  *OptimizeHandler
	historyHandler   *HistoryHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		evaluateHandler:  NewEvaluateHandler(deps),
		surfaceHandler:   NewSurfaceHandler(deps),
		optimizeHandler:  NewOptimizeHandler(deps),
		historyHandler:   NewHistoryHandler(deps, maxHistoryLimit),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/surface", MetricsMiddleware(s.surfaceHandler.HandleGetSurface, "surface"))
	mux.HandleFunc("/optimize", MetricsMiddleware(s.optimizeHandler.HandleOptimize, "optimize"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
}

// maxHistoryLimit caps the number of records a single history query returns.
const maxHistoryLimit = 1000

// evaluateRequest mirrors the OpenAPI schema for POST /evaluate. Omitted
// fields fall back to the service defaults.
type evaluateRequest struct {
	Commission *float64 `json:"commission"`
	Effort     *float64 `json:"effort"`
	Curve      string   `json:"curve"`
}

// scenario resolves the request against the defaults.
func (e evaluateRequest) scenario(defaults model.Scenario) model.Scenario {
	sc := defaults
	if e.Commission != nil {
		sc.Commission = *e.Commission
	}
	if e.Effort != nil {
		sc.Effort = *e.Effort
	}
	if strings.TrimSpace(e.Curve) != "" {
		sc.Curve = normalizeCurve(e.Curve)
	}
	return sc
}

// normalizeCurve maps a raw curve name onto its canonical Kind when known.
// Unknown names pass through unchanged so the service reports the rejection
// in its own validation order.
func normalizeCurve(raw string) curve.Kind {
	raw = strings.TrimSpace(raw)
	if k, err := curve.Parse(raw); err == nil {
		return k
	}
	return curve.Kind(raw)
}

type optimizeRequest struct {
	Commission *float64 `json:"commission"`
	Curve      string   `json:"curve"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isRejectedInput reports whether err describes input the caller can fix,
// so the API answers 400 instead of 500.
func isRejectedInput(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, model.ErrCommissionRange) ||
		errors.Is(err, model.ErrEffortRange) ||
		errors.Is(err, curve.ErrUnknownCurve) ||
		errors.Is(err, grid.ErrTooLarge)
}
