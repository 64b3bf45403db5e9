// Package report renders side-by-side curve comparisons for a scenario.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/incent/internal/domain/bestresponse"
	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/internal/domain/payoff"
)

// Row is the comparison result for one sales curve.
type Row struct {
	Curve      curve.Kind
	Metrics    model.Metrics
	BestEffort *bestresponse.Result
}

// Comparison holds the evaluated rows for a fixed commission and effort.
type Comparison struct {
	Commission float64
	Effort     float64
	Rows       []Row
}

// Option applies a configuration option to the Reporter.
type Option func(*Reporter)

// WithBestEffort enables the best-response search column over the given
// effort domain.
func WithBestEffort(effortMin, effortMax float64) Option {
	return func(r *Reporter) {
		r.searchBest = true
		r.effortMin = effortMin
		r.effortMax = effortMax
	}
}

// Reporter evaluates every sales curve at one scenario.
type Reporter struct {
	calc       *payoff.Calculator
	optimizer  *bestresponse.Optimizer
	searchBest bool
	effortMin  float64
	effortMax  float64
}

// New constructs a Reporter around a payoff calculator.
func New(calc *payoff.Calculator, opts ...Option) *Reporter {
	r := &Reporter{
		calc:      calc,
		optimizer: bestresponse.New(calc),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compare evaluates all curves at the given commission and effort.
func (r *Reporter) Compare(ctx context.Context, commission, effort float64) (Comparison, error) {
	cmp := Comparison{Commission: commission, Effort: effort}
	for _, k := range curve.Kinds() {
		row := Row{
			Curve:   k,
			Metrics: r.calc.Metrics(model.Scenario{Commission: commission, Effort: effort, Curve: k}),
		}
		if r.searchBest {
			res, err := r.optimizer.BestEffort(ctx, commission, k, r.effortMin, r.effortMax)
			if err != nil {
				return Comparison{}, fmt.Errorf("best effort for %s: %w", k, err)
			}
			row.BestEffort = &res
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp, nil
}

// Render writes the comparison as an aligned text table.
func (c Comparison) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "commission=%.2f effort=%.2f\n\n", c.Commission, c.Effort)
	fmt.Fprintln(tw, "CURVE\tAGENT PROFIT\tAGENT %\tCOMPANY %\tBEST EFFORT\tBEST AGENT %")
	for _, row := range c.Rows {
		best, bestPct := "-", "-"
		if row.BestEffort != nil {
			best = fmt.Sprintf("%.3f", row.BestEffort.Effort)
			bestPct = fmt.Sprintf("%.2f", row.BestEffort.Metrics.AgentProfitPercent)
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t%.2f\t%s\t%s\n",
			row.Curve,
			row.Metrics.AgentProfit,
			row.Metrics.AgentProfitPercent,
			row.Metrics.CompanyProfitPercent,
			best,
			bestPct,
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
