package repository

import (
	"context"
	"sync"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/grid"
	"github.com/okian/incent/pkg/metrics"
)

// surfaceKey identifies a cached surface. A surface depends only on the curve
// and the grid shape, never on the current scenario point.
type surfaceKey struct {
	kind            curve.Kind
	commissionSteps int
	effortSteps     int
}

// SurfaceCache memoizes computed surfaces per curve and grid shape.
type SurfaceCache struct {
	mu       sync.RWMutex
	surfaces map[surfaceKey]*grid.Surface
}

// NewSurfaceCache creates an empty surface cache.
func NewSurfaceCache() *SurfaceCache {
	return &SurfaceCache{
		surfaces: make(map[surfaceKey]*grid.Surface),
	}
}

// Get returns the cached surface for a curve and shape, if present.
func (c *SurfaceCache) Get(_ context.Context, k curve.Kind, commissionSteps, effortSteps int) (*grid.Surface, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.surfaces[surfaceKey{kind: k, commissionSteps: commissionSteps, effortSteps: effortSteps}]
	if ok {
		metrics.RecordSurfaceCacheHit()
	} else {
		metrics.RecordSurfaceCacheMiss()
	}
	return s, ok
}

// Put stores a computed surface. Surfaces are immutable once built, so the
// pointer is shared between callers.
func (c *SurfaceCache) Put(_ context.Context, s *grid.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := surfaceKey{
		kind:            s.Curve,
		commissionSteps: len(s.Commissions),
		effortSteps:     len(s.Efforts),
	}
	c.surfaces[key] = s
}

// Len returns the number of cached surfaces.
func (c *SurfaceCache) Len(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.surfaces)
}
