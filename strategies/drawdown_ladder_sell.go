package strategies

import (
	"dcasim/market"
	"dcasim/sim"
)

// DrawdownLadderWithSell extends DrawdownLadder with a take-profit leg. It
// tracks a sell base price, initialized to the entry price and reset to the
// fill price after any buy or sell. On bars where no buy triggers, if a
// position exists and price has risen RiseThreshold above the sell base, it
// sells a fixed notional capped at current holdings.
//
// Buy and sell checks are mutually exclusive within one bar: a triggered buy
// skips the sell check, preventing same-bar thrash.
type DrawdownLadderWithSell struct {
	DrawdownLadder
	RiseThreshold float64
	SellAmount    float64 // notional per sell, capped at holdings

	sellBase float64
}

// NewDrawdownLadderWithSell validates parameters and returns the policy.
func NewDrawdownLadderWithSell(initial, additional, dropThreshold, riseThreshold, sellAmount float64) (*DrawdownLadderWithSell, error) {
	base, err := NewDrawdownLadder(initial, additional, dropThreshold)
	if err != nil {
		return nil, err
	}
	if err := checkThreshold("rise_threshold", riseThreshold); err != nil {
		return nil, err
	}
	if err := checkPositive("sell_amount", sellAmount); err != nil {
		return nil, err
	}
	s := &DrawdownLadderWithSell{
		DrawdownLadder: *base,
		RiseThreshold:  riseThreshold,
		SellAmount:     sellAmount,
	}
	s.Reset()
	return s, nil
}

func (s *DrawdownLadderWithSell) Name() string { return "drawdown-ladder-sell" }

func (s *DrawdownLadderWithSell) Reset() {
	s.DrawdownLadder.Reset()
	s.sellBase = 0
}

func (s *DrawdownLadderWithSell) Decide(bar market.Bar, acct sim.Snapshot) *sim.TradeIntent {
	intent := s.DrawdownLadder.Decide(bar, acct)
	if s.sellBase == 0 {
		s.sellBase = bar.Close
	}
	if intent != nil {
		return intent
	}

	pos := acct.Position
	if pos.Units <= 0 {
		return nil
	}

	price := bar.Close
	rise := (price - s.sellBase) / s.sellBase
	if rise < s.RiseThreshold {
		return nil
	}

	units := s.SellAmount / price
	if units > pos.Units {
		units = pos.Units
	}
	if units <= 0 {
		return nil
	}
	return &sim.TradeIntent{Side: sim.Sell, Units: units, Reason: "take-profit"}
}

// OnFill resets the buy peak (via the embedded ladder) and the sell base to
// the executed price.
func (s *DrawdownLadderWithSell) OnFill(f sim.Fill) {
	s.DrawdownLadder.OnFill(f)
	s.sellBase = f.Price
}
