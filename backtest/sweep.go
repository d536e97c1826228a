package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"dcasim/market"
	"dcasim/sim"
	"dcasim/strategies"
)

// RunSpec describes one run of a parameter sweep. Policy is a factory so
// each run gets a fresh policy value with its own internal state.
type RunSpec struct {
	Name        string
	Series      *market.BarSeries
	InitialCash float64
	Commission  sim.Commission
	Policy      func() (strategies.Policy, error)
}

// SweepResult pairs a spec name with its run outcome.
type SweepResult struct {
	Name    string
	Summary Summary
	Result  *Result
}

// Sweep runs each spec on its own engine, up to parallel at a time, and
// returns results in spec order. The first failing run cancels the rest.
func Sweep(ctx context.Context, specs []RunSpec, parallel int) ([]SweepResult, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]SweepResult, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			policy, err := spec.Policy()
			if err != nil {
				return fmt.Errorf("sweep %q: %w", spec.Name, err)
			}
			ledger, err := sim.NewLedger(spec.InitialCash)
			if err != nil {
				return fmt.Errorf("sweep %q: %w", spec.Name, err)
			}

			engine := NewEngine(spec.Series, ledger, sim.NewExecutor(spec.Commission))
			res, err := engine.Run(policy)
			if err != nil {
				return fmt.Errorf("sweep %q: %w", spec.Name, err)
			}

			results[i] = SweepResult{Name: spec.Name, Summary: res.Summarize(), Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
