// Package strategies contains the per-bar decision policies the backtest
// engine can replay. A policy sees the current bar and a read-only ledger
// snapshot and proposes at most one trade; it never touches the ledger
// directly.
package strategies

import (
	"fmt"
	"strings"

	"dcasim/market"
	"dcasim/sim"
)

// Policy is called once per bar, in order. Decide may return nil (no trade)
// or a single intent, which the engine resolves within the same bar.
type Policy interface {
	Name() string
	Reset()
	Decide(bar market.Bar, acct sim.Snapshot) *sim.TradeIntent
}

// FillListener is an optional interface a policy can implement to learn that
// one of its intents filled. Policies that anchor state to the last trade
// (decline DCA, drawdown ladders) reset those anchors here rather than at
// intent time, so a rejected intent leaves state untouched.
type FillListener interface {
	OnFill(f sim.Fill)
}

// Params is the flat set of numeric knobs shared by all policy variants.
// Each variant reads the subset it needs.
type Params struct {
	FixedCashAmount      float64 // notional per calendar/decline buy
	DropThreshold        float64 // fractional decline trigger, in (0,1)
	RiseThreshold        float64 // fractional rise trigger, in (0,1)
	MinIntervalDays      int     // minimum days between decline-triggered buys
	InitialInvestment    float64 // lump sum at simulation start
	AdditionalInvestment float64 // notional per ladder buy
	SellAmount           float64 // notional per ladder sell, capped at holdings
}

// ConfigError reports an invalid policy parameter. Fatal: a run is rejected
// before it starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func checkThreshold(field string, v float64) error {
	if v <= 0 || v >= 1 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be in (0,1), got %g", v)}
	}
	return nil
}

func checkPositive(field string, v float64) error {
	if v <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be positive, got %g", v)}
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if v < 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be non-negative, got %g", v)}
	}
	return nil
}

// ByName constructs a policy by its registry name.
func ByName(name string, p Params) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return NoopPolicy{}, nil

	case "calendar-dca", "dca":
		return NewCalendarDCA(p.FixedCashAmount)

	case "decline-dca":
		return NewDeclineDCA(p.FixedCashAmount, p.DropThreshold, p.MinIntervalDays)

	case "drawdown-ladder":
		return NewDrawdownLadder(p.InitialInvestment, p.AdditionalInvestment, p.DropThreshold)

	case "drawdown-ladder-sell":
		return NewDrawdownLadderWithSell(p.InitialInvestment, p.AdditionalInvestment,
			p.DropThreshold, p.RiseThreshold, p.SellAmount)

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, calendar-dca, decline-dca, drawdown-ladder, drawdown-ladder-sell)", name)
	}
}
