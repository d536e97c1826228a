// Package backtest drives the bar replay loop: it feeds each bar to a
// policy, routes intents through the executor, applies fills to the ledger,
// and records fill, rejection, and equity histories.
package backtest

import (
	"fmt"
	"time"

	"dcasim/journal"
	"dcasim/market"
	"dcasim/sim"
	"dcasim/strategies"
)

// EquityPoint is one per-bar portfolio snapshot.
type EquityPoint struct {
	Time          time.Time
	Cash          float64
	PositionValue float64
	Equity        float64
}

// Engine replays one BarSeries through one policy. Engines are single-use
// per run and hold no shared state, so independent runs can execute in
// parallel with their own engines.
type Engine struct {
	series *market.BarSeries
	ledger *sim.Ledger
	exec   *sim.Executor

	journal journal.Journal
	runID   string
}

// NewEngine wires a replay over series using ledger and exec.
func NewEngine(series *market.BarSeries, ledger *sim.Ledger, exec *sim.Executor) *Engine {
	return &Engine{series: series, ledger: ledger, exec: exec}
}

// SetJournal attaches an optional journal; records are stamped with runID.
// The run ID labels persisted rows only and never influences decisions.
func (e *Engine) SetJournal(j journal.Journal, runID string) {
	e.journal = j
	e.runID = runID
}

// Run executes the replay. Every intent is resolved within the bar that
// raised it: filled intents mutate the ledger, rejected intents are recorded
// and skipped. The run aborts only on data-integrity faults; it always
// produces a full equity history otherwise.
//
// Runs are deterministic: identical series, policy parameters, and initial
// cash yield identical fill and equity histories.
func (e *Engine) Run(policy strategies.Policy) (*Result, error) {
	if e.series == nil {
		return nil, fmt.Errorf("backtest: nil bar series")
	}
	if e.ledger == nil || e.exec == nil {
		return nil, fmt.Errorf("backtest: ledger and executor are required")
	}
	if policy == nil {
		return nil, fmt.Errorf("backtest: nil policy")
	}

	policy.Reset()
	listener, _ := policy.(strategies.FillListener)

	res := &Result{
		Symbol:      e.series.Symbol,
		Policy:      policy.Name(),
		InitialCash: e.ledger.Cash(),
	}

	var prev time.Time
	for i, bar := range e.series.Bars {
		if !prev.IsZero() && !prev.Before(bar.Time) {
			return nil, &market.DataIntegrityError{Row: i, Reason: "bars out of order"}
		}
		prev = bar.Time

		if intent := policy.Decide(bar, e.ledger.Snapshot()); intent != nil {
			fill, rej, err := e.exec.Execute(*intent, bar, e.ledger)
			switch {
			case err != nil:
				return nil, fmt.Errorf("bar %d (%s): %w", i, bar.Time.Format("2006-01-02"), err)

			case rej != nil:
				res.Rejections = append(res.Rejections, *rej)

			default:
				if err := e.ledger.ApplyFill(*fill); err != nil {
					return nil, fmt.Errorf("bar %d (%s): %w", i, bar.Time.Format("2006-01-02"), err)
				}
				res.Fills = append(res.Fills, *fill)
				if listener != nil {
					listener.OnFill(*fill)
				}
				if e.journal != nil {
					if err := e.journal.RecordFill(journal.FillRecord{
						RunID:      e.runID,
						Time:       fill.Time,
						Side:       fill.Side.String(),
						Price:      fill.Price,
						Units:      fill.Units,
						Commission: fill.Commission,
						Reason:     fill.Reason,
					}); err != nil {
						return nil, fmt.Errorf("journal fill: %w", err)
					}
				}
			}
		}

		snap := e.ledger.Snapshot()
		if snap.Cash < 0 {
			return nil, &market.DataIntegrityError{
				Row:    i,
				Reason: fmt.Sprintf("negative cash %.6f after bar", snap.Cash),
			}
		}
		ep := EquityPoint{
			Time:          bar.Time,
			Cash:          snap.Cash,
			PositionValue: snap.Position.Value(bar.Close),
			Equity:        snap.Cash + snap.Position.Value(bar.Close),
		}
		res.Equity = append(res.Equity, ep)

		if e.journal != nil {
			if err := e.journal.RecordEquity(journal.EquitySnapshot{
				RunID:         e.runID,
				Time:          ep.Time,
				Cash:          ep.Cash,
				PositionValue: ep.PositionValue,
				Equity:        ep.Equity,
			}); err != nil {
				return nil, fmt.Errorf("journal equity: %w", err)
			}
		}
	}

	return res, nil
}
