// Package repository holds the in-memory evaluation history and surface cache.
package repository

import (
	"context"
	"time"

	"github.com/okian/incent/internal/domain/model"
)

// Record is one retained point evaluation.
type Record struct {
	ID       string         `json:"id"`
	At       time.Time      `json:"at"`
	Scenario model.Scenario `json:"scenario"`
	Metrics  model.Metrics  `json:"metrics"`
}

// History provides read/write access to recent evaluations.
type History interface {
	// Add appends an evaluation and returns the stored record.
	Add(ctx context.Context, s model.Scenario, m model.Metrics) Record

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) []Record

	// Last returns the most recent record.
	// Returns ErrEmptyHistory when nothing has been evaluated yet.
	Last(ctx context.Context) (Record, error)

	// Len returns the number of retained records.
	Len(ctx context.Context) int
}
