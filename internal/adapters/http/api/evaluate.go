// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/incent/internal/adapters/repository"
	"github.com/okian/incent/internal/domain/model"
)

// EvaluateDependencies defines the interface for scenario evaluation
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, sc model.Scenario) (repository.Record, error)
	Defaults() model.Scenario
}

// EvaluateHandler handles scenario evaluation requests
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandleEvaluate handles POST /evaluate requests
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sc := req.scenario(h.deps.Defaults())
	rec, err := h.deps.Evaluate(r.Context(), sc)
	if err != nil {
		if isRejectedInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
