// Package bestresponse searches the effort domain for the agent's optimum.
//
// The agent objective is already negated for minimization, so it is fed to
// the minimizer unchanged: minimizing it maximizes the agent's real profit.
package bestresponse

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/internal/domain/payoff"
)

// Default optimizer configuration constants.
const (
	defaultMaxIters = 500
	scanSamples     = 64
	penaltyWeight   = 1000.0
)

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithMaxIterations caps Nelder-Mead major iterations.
func WithMaxIterations(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.maxIters = n
		}
	}
}

// Result holds the best effort found for a commission and curve.
type Result struct {
	Commission float64       `json:"commission"`
	Curve      curve.Kind    `json:"curve"`
	Effort     float64       `json:"effort"`
	Metrics    model.Metrics `json:"metrics"`
	Converged  bool          `json:"converged"`
}

// Optimizer minimizes the negated agent objective over effort.
type Optimizer struct {
	calc     *payoff.Calculator
	maxIters int
}

// New creates an Optimizer with configuration options.
func New(calc *payoff.Calculator, opts ...Option) *Optimizer {
	o := &Optimizer{
		calc:     calc,
		maxIters: defaultMaxIters,
	}

	// Apply all options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// BestEffort finds the effort in [effortMin, effortMax] minimizing the
// negated agent objective for the given commission and curve. A coarse scan
// seeds Nelder-Mead; if the refinement does not converge the scan optimum is
// returned with Converged set to false.
func (o *Optimizer) BestEffort(ctx context.Context, commission float64, k curve.Kind, effortMin, effortMax float64) (Result, error) {
	if effortMin >= effortMax {
		return Result{}, fmt.Errorf("%w: effort domain [%g, %g]", ErrBadDomain, effortMin, effortMax)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("best effort search cancelled: %w", err)
	}

	clamp := func(e float64) float64 {
		if e < effortMin {
			return effortMin
		}
		if e > effortMax {
			return effortMax
		}
		return e
	}

	// Out-of-bounds efforts are projected back with a quadratic penalty so
	// the simplex is steered into the domain.
	objective := func(e float64) float64 {
		proj := clamp(e)
		_, profit := o.calc.Evaluate(proj, commission, k)
		d := e - proj
		return profit + penaltyWeight*d*d
	}

	// Coarse scan seeds the simplex and doubles as a convergence fallback.
	step := (effortMax - effortMin) / float64(scanSamples-1)
	bestEffort := effortMin
	bestObj := objective(effortMin)
	for i := 1; i < scanSamples; i++ {
		e := effortMin + float64(i)*step
		if obj := objective(e); obj < bestObj {
			bestObj = obj
			bestEffort = e
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(x[0])
		},
	}

	settings := &optimize.Settings{MajorIterations: o.maxIters}
	converged := false
	result, err := optimize.Minimize(problem, []float64{bestEffort}, settings, &optimize.NelderMead{})
	if err == nil {
		successStatuses := map[optimize.Status]bool{
			optimize.Success:             true,
			optimize.FunctionConvergence: true,
			optimize.GradientThreshold:   true,
		}
		if successStatuses[result.Status] {
			refined := clamp(result.X[0])
			if obj := objective(refined); obj <= bestObj {
				bestObj = obj
				bestEffort = refined
			}
			converged = true
		}
	}

	s := model.Scenario{Commission: commission, Effort: bestEffort, Curve: k}
	return Result{
		Commission: commission,
		Curve:      k,
		Effort:     bestEffort,
		Metrics:    o.calc.Metrics(s),
		Converged:  converged,
	}, nil
}
