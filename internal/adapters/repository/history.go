package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/pkg/metrics"
)

// defaultCapacity bounds the history when no option is given.
const defaultCapacity = 256

// Option applies a configuration option to the ring history.
type Option func(*ringHistory)

// WithCapacity sets the maximum number of retained records.
func WithCapacity(n int) Option {
	return func(h *ringHistory) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// ringHistory implements History with a bounded slice evicting oldest first.
type ringHistory struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
}

// NewHistory creates a bounded in-memory history with configuration options.
func NewHistory(opts ...Option) History {
	h := &ringHistory{
		capacity: defaultCapacity,
	}

	// Apply all options
	for _, opt := range opts {
		opt(h)
	}

	h.records = make([]Record, 0, h.capacity)
	return h
}

// Add appends an evaluation, evicting the oldest record at capacity.
func (h *ringHistory) Add(_ context.Context, s model.Scenario, m model.Metrics) Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := Record{
		ID:       uuid.New().String(),
		At:       time.Now().UTC(),
		Scenario: s,
		Metrics:  m,
	}

	if len(h.records) >= h.capacity {
		h.records = h.records[1:]
	}
	h.records = append(h.records, rec)
	metrics.UpdateHistorySize(len(h.records))
	return rec
}

// Recent returns up to limit records, newest first.
func (h *ringHistory) Recent(_ context.Context, limit int) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.records) {
		limit = len(h.records)
	}
	out := make([]Record, 0, limit)
	for i := len(h.records) - 1; i >= len(h.records)-limit; i-- {
		out = append(out, h.records[i])
	}
	return out
}

// Last returns the most recent record.
func (h *ringHistory) Last(_ context.Context) (Record, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.records) == 0 {
		return Record{}, ErrEmptyHistory
	}
	return h.records[len(h.records)-1], nil
}

// Len returns the number of retained records.
func (h *ringHistory) Len(_ context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
