// Package grid evaluates profit metrics over a commission x effort grid.
//
// Cells are independent, so rows are distributed over a bounded set of
// goroutines. Each cell slot is written exactly once; there is no shared
// mutable state beyond the write-once grids.
package grid

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/payoff"
)

// defaultWorkers bounds row parallelism when no option is given.
const defaultWorkers = 4

// Axis describes one evenly spaced grid dimension, endpoints included.
type Axis struct {
	Min   float64
	Max   float64
	Steps int
}

// Points returns Steps evenly spaced values from Min to Max inclusive.
func (a Axis) Points() []float64 {
	return floats.Span(make([]float64, a.Steps), a.Min, a.Max)
}

// Surface holds both profit grids for one curve. Values are indexed
// [effort index][commission index].
type Surface struct {
	Curve            curve.Kind  `json:"curve"`
	Commissions      []float64   `json:"commissions"`
	Efforts          []float64   `json:"efforts"`
	AgentProfitPct   [][]float64 `json:"agent_profit_percentage"`
	CompanyProfitPct [][]float64 `json:"company_profit_percentage"`
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithWorkers sets the number of goroutines used to fill surface rows.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// Evaluator builds profit surfaces from a payoff calculator.
type Evaluator struct {
	calc    *payoff.Calculator
	workers int
}

// NewEvaluator creates an Evaluator with configuration options.
func NewEvaluator(calc *payoff.Calculator, opts ...Option) *Evaluator {
	e := &Evaluator{
		calc:    calc,
		workers: defaultWorkers,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Build evaluates both metrics over the full commission x effort grid.
// The output shape is always (effortAxis.Steps, commissionAxis.Steps)
// regardless of the chosen curve. Build honors ctx cancellation between rows.
func (e *Evaluator) Build(ctx context.Context, k curve.Kind, commissionAxis, effortAxis Axis) (*Surface, error) {
	if commissionAxis.Steps < 2 || effortAxis.Steps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps per axis", ErrAxisShape)
	}

	commissions := commissionAxis.Points()
	efforts := effortAxis.Points()

	agent := make([][]float64, len(efforts))
	company := make([][]float64, len(efforts))
	for j := range efforts {
		agent[j] = make([]float64, len(commissions))
		company[j] = make([]float64, len(commissions))
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(efforts) {
		workers = len(efforts)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range rows {
				for i, c := range commissions {
					pct, _ := e.calc.Evaluate(efforts[j], c, k)
					agent[j][i] = pct
					company[j][i] = e.calc.CompanyProfitPercent(efforts[j], c, k)
				}
			}
		}()
	}

	var cancelled error
feed:
	for j := range efforts {
		// deterministic abort when the context is already done
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		default:
		}
		select {
		case rows <- j:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(rows)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("surface build cancelled: %w", cancelled)
	}

	return &Surface{
		Curve:            k,
		Commissions:      commissions,
		Efforts:          efforts,
		AgentProfitPct:   agent,
		CompanyProfitPct: company,
	}, nil
}
