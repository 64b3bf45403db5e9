package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/internal/domain/payoff"
	"github.com/okian/incent/internal/report"
)

// Default configuration constants.
const (
	defaultCommission = 0.5
	defaultEffort     = 5.0
	defaultEffortCost = 1.0
	defaultTimeout    = 30 * time.Second
)

func main() {
	var (
		commission = flag.Float64("commission", defaultCommission, "Commission rate to evaluate")
		effort     = flag.Float64("effort", defaultEffort, "Agent effort level to evaluate")
		effortCost = flag.Float64("effort-cost", defaultEffortCost, "Per-unit effort cost of the agent")
		best       = flag.Bool("best", false, "Also search the profit-maximizing effort per curve")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	domain := model.DefaultDomain()
	if err := domain.ValidateCommission(*commission); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if err := domain.ValidateEffort(*effort); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	calc := payoff.New(payoff.WithEffortCost(*effortCost))
	opts := []report.Option{}
	if *best {
		opts = append(opts, report.WithBestEffort(domain.EffortMin, domain.EffortMax))
	}

	cmp, err := report.New(calc, opts...).Compare(ctx, *commission, *effort)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if err := cmp.Render(os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
