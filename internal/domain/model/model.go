// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/incent/internal/domain/curve"
)

// Scenario is one (commission, effort, curve) input to the model.
type Scenario struct {
	Commission float64    `json:"commission"`
	Effort     float64    `json:"effort"`
	Curve      curve.Kind `json:"curve"`
}

// Metrics holds the derived profit metrics for a scenario.
//
// AgentProfit carries the minimizer-facing sign: it is
// -(commission*sales - effort), the value a minimizer would consume. Callers
// must not "fix" the sign; the public contract preserves it.
type Metrics struct {
	AgentProfitPercent   float64 `json:"agent_profit_percentage"`
	AgentProfit          float64 `json:"agent_profit"`
	CompanyProfitPercent float64 `json:"company_profit_percentage"`
}

// Domain holds the accepted input ranges for scenario validation.
type Domain struct {
	CommissionMin float64 `json:"commission_min"`
	CommissionMax float64 `json:"commission_max"`
	EffortMin     float64 `json:"effort_min"`
	EffortMax     float64 `json:"effort_max"`
}

// DefaultDomain returns the canonical input domain: commission in [0.1, 0.9]
// and effort in [0, 10].
func DefaultDomain() Domain {
	return Domain{
		CommissionMin: 0.1,
		CommissionMax: 0.9,
		EffortMin:     0,
		EffortMax:     10,
	}
}

// ValidateCommission rejects commissions outside the accepted range.
// The error names the violated constraint.
func (d Domain) ValidateCommission(c float64) error {
	if c < d.CommissionMin || c > d.CommissionMax {
		return fmt.Errorf("%w: commission value must be between %g and %g",
			ErrCommissionRange, d.CommissionMin, d.CommissionMax)
	}
	return nil
}

// ValidateEffort rejects efforts outside the accepted range.
// The error names the violated constraint.
func (d Domain) ValidateEffort(e float64) error {
	if e < d.EffortMin || e > d.EffortMax {
		return fmt.Errorf("%w: effort value must be between %g and %g",
			ErrEffortRange, d.EffortMin, d.EffortMax)
	}
	return nil
}

// Validate checks a full scenario against the domain. Commission is checked
// before effort, and the curve last.
func (d Domain) Validate(s Scenario) error {
	if err := d.ValidateCommission(s.Commission); err != nil {
		return err
	}
	if err := d.ValidateEffort(s.Effort); err != nil {
		return err
	}
	if _, err := curve.Parse(s.Curve.String()); err != nil {
		return err
	}
	return nil
}
