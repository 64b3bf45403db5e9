// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/grid"
	"github.com/okian/incent/internal/domain/model"
)

// SurfaceDependencies defines the interface for surface queries
type SurfaceDependencies interface {
	Surface(ctx context.Context, k curve.Kind, commissionSteps, effortSteps int) (*grid.Surface, error)
	Defaults() model.Scenario
}

// SurfaceHandler handles profit surface requests
type SurfaceHandler struct {
	deps SurfaceDependencies
}

// NewSurfaceHandler creates a new surface handler
func NewSurfaceHandler(deps SurfaceDependencies) *SurfaceHandler {
	return &SurfaceHandler{deps: deps}
}

// HandleGetSurface handles GET /surface?curve=&commission_steps=&effort_steps= requests.
// An omitted curve falls back to the default; omitted step counts fall back to
// the configured grid shape.
func (h *SurfaceHandler) HandleGetSurface(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_surface"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	k := h.deps.Defaults().Curve
	if raw := strings.TrimSpace(q.Get("curve")); raw != "" {
		k = normalizeCurve(raw)
	}

	commissionSteps, err := stepsParam(q.Get("commission_steps"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	effortSteps, err := stepsParam(q.Get("effort_steps"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	surface, err := h.deps.Surface(r.Context(), k, commissionSteps, effortSteps)
	if err != nil {
		if isRejectedInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, surface)
}

// stepsParam parses an optional positive step count; empty means "use default".
func stepsParam(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 2 {
		return 0, ErrBadRequest
	}
	return n, nil
}
