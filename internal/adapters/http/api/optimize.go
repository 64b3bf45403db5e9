// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/incent/internal/domain/bestresponse"
	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/model"
)

// OptimizeDependencies defines the interface for best-response searches
type OptimizeDependencies interface {
	BestEffort(ctx context.Context, commission float64, k curve.Kind) (bestresponse.Result, error)
	Defaults() model.Scenario
}

// OptimizeHandler handles best-response requests
type OptimizeHandler struct {
	deps OptimizeDependencies
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(deps OptimizeDependencies) *OptimizeHandler {
	return &OptimizeHandler{deps: deps}
}

// HandleOptimize handles POST /optimize requests
func (h *OptimizeHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "api.optimize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	defaults := h.deps.Defaults()
	commission := defaults.Commission
	if req.Commission != nil {
		commission = *req.Commission
	}
	k := defaults.Curve
	if raw := strings.TrimSpace(req.Curve); raw != "" {
		k = normalizeCurve(raw)
	}

	res, err := h.deps.BestEffort(r.Context(), commission, k)
	if err != nil {
		if isRejectedInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
