// Package payoff computes the derived profit metrics of the commission model.
package payoff

import (
	"math"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/model"
)

// defaultEffortCost is the per-unit effort cost in the agent objective.
const defaultEffortCost = 1.0

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithEffortCost sets the per-unit cost of effort in the agent objective.
func WithEffortCost(cost float64) Option {
	return func(c *Calculator) {
		if cost > 0 {
			c.effortCost = cost
		}
	}
}

// Calculator derives profit metrics from a sales curve. It is stateless and
// safe for concurrent use.
type Calculator struct {
	effortCost float64
}

// New creates a Calculator with configuration options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		effortCost: defaultEffortCost,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Evaluate computes the agent-side metrics for a scenario.
//
// The agent profit is -(commission*sales - effortCost*effort). The negation is
// the minimizer-facing sign convention and is part of the public contract:
// the best-response optimizer minimizes this value directly.
//
// The percentage divides by totalSales = sales*(1-sales); that product is
// never zero while sales stays inside (0, 1), so the zero fallback only fires
// on degenerate inputs that bypass domain validation.
func (c *Calculator) Evaluate(effort, commission float64, k curve.Kind) (agentProfitPct, agentProfit float64) {
	s := k.Sales(effort, commission)
	agentProfit = -(commission*s - c.effortCost*effort)
	totalSales := s * (1 - s)
	if totalSales != 0 {
		agentProfitPct = (agentProfit / totalSales) * 100
	}
	return agentProfitPct, agentProfit
}

// CompanyProfitPercent computes sales*(1-sales)*100 rounded to two decimals.
// The pre-rounding value never exceeds 25 since x(1-x) <= 0.25 on (0, 1).
func (c *Calculator) CompanyProfitPercent(effort, commission float64, k curve.Kind) float64 {
	s := k.Sales(effort, commission)
	return Round2(s * (1 - s) * 100)
}

// Metrics bundles both sides of the model for a scenario.
func (c *Calculator) Metrics(s model.Scenario) model.Metrics {
	pct, profit := c.Evaluate(s.Effort, s.Commission, s.Curve)
	return model.Metrics{
		AgentProfitPercent:   pct,
		AgentProfit:          profit,
		CompanyProfitPercent: c.CompanyProfitPercent(s.Effort, s.Commission, s.Curve),
	}
}

// Round2 rounds to two decimal digits.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
