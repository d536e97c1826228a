package strategies

import (
	"dcasim/market"
	"dcasim/sim"
)

// DrawdownLadder buys a lump sum on the first bar, then buys a fixed
// additional notional every time price drops DropThreshold below the running
// peak. After each triggered buy the peak resets to the purchase price, not
// the pre-drop peak, so the next trigger measures decline from the last
// action: a sequential ladder rather than an all-time-high anchor.
type DrawdownLadder struct {
	Initial       float64 // lump sum at simulation start
	Additional    float64 // notional per ladder buy
	DropThreshold float64

	peak float64
}

// NewDrawdownLadder validates parameters and returns the policy.
func NewDrawdownLadder(initial, additional, dropThreshold float64) (*DrawdownLadder, error) {
	if err := checkNonNegative("initial_investment", initial); err != nil {
		return nil, err
	}
	if err := checkPositive("additional_investment", additional); err != nil {
		return nil, err
	}
	if err := checkThreshold("drop_threshold", dropThreshold); err != nil {
		return nil, err
	}
	s := &DrawdownLadder{Initial: initial, Additional: additional, DropThreshold: dropThreshold}
	s.Reset()
	return s, nil
}

func (s *DrawdownLadder) Name() string { return "drawdown-ladder" }

func (s *DrawdownLadder) Reset() {
	s.peak = 0
}

func (s *DrawdownLadder) Decide(bar market.Bar, acct sim.Snapshot) *sim.TradeIntent {
	price := bar.Close

	// First bar: anchor the peak at the entry price and place the lump sum.
	if s.peak == 0 {
		s.peak = price
		if s.Initial <= 0 {
			return nil
		}
		return &sim.TradeIntent{Side: sim.Buy, Notional: s.Initial, Reason: "initial"}
	}

	if price > s.peak {
		s.peak = price
	}

	drop := (s.peak - price) / s.peak
	if drop < s.DropThreshold || acct.Cash < s.Additional {
		return nil
	}
	return &sim.TradeIntent{Side: sim.Buy, Notional: s.Additional, Reason: "drawdown-buy"}
}

// OnFill resets the peak to the purchase price.
func (s *DrawdownLadder) OnFill(f sim.Fill) {
	if f.Side == sim.Buy {
		s.peak = f.Price
	}
}
