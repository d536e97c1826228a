package strategies

import (
	"time"

	"dcasim/market"
	"dcasim/sim"
)

// DeclineDCA buys a fixed notional when price has declined by at least
// DropThreshold from either the last trade price or the peak seen since the
// last trade, provided at least MinIntervalDays have elapsed since the last
// trade.
//
// The first two bars are warm-up: bar one seeds the last-trade price and
// peak, bar two seeds the last-trade date. No trades before both are seeded.
// Anchors reset on fill, not at intent time, so a rejected intent keeps the
// trigger armed.
type DeclineDCA struct {
	Amount          float64
	DropThreshold   float64
	MinIntervalDays int

	lastTradePrice float64
	peak           float64
	lastTradeDate  time.Time
	triggers       int
}

// NewDeclineDCA validates parameters and returns the policy.
func NewDeclineDCA(amount, dropThreshold float64, minIntervalDays int) (*DeclineDCA, error) {
	if err := checkPositive("fixed_cash_amount", amount); err != nil {
		return nil, err
	}
	if err := checkThreshold("drop_threshold", dropThreshold); err != nil {
		return nil, err
	}
	if minIntervalDays < 0 {
		return nil, &ConfigError{Field: "min_interval_days", Reason: "must be non-negative"}
	}
	s := &DeclineDCA{
		Amount:          amount,
		DropThreshold:   dropThreshold,
		MinIntervalDays: minIntervalDays,
	}
	s.Reset()
	return s, nil
}

func (s *DeclineDCA) Name() string { return "decline-dca" }

func (s *DeclineDCA) Reset() {
	s.lastTradePrice = 0
	s.peak = 0
	s.lastTradeDate = time.Time{}
	s.triggers = 0
}

// Triggers reports how many intents the policy has emitted, whether or not
// they filled.
func (s *DeclineDCA) Triggers() int { return s.triggers }

func (s *DeclineDCA) Decide(bar market.Bar, acct sim.Snapshot) *sim.TradeIntent {
	price := bar.Close

	// Warm-up: seed anchors across the first two bars.
	if s.lastTradePrice == 0 {
		s.lastTradePrice = price
		s.peak = price
		return nil
	}
	if s.lastTradeDate.IsZero() {
		s.lastTradeDate = bar.Time
		return nil
	}

	if price > s.peak {
		s.peak = price
	}

	dropFromLast := (s.lastTradePrice - price) / s.lastTradePrice
	dropFromPeak := (s.peak - price) / s.peak
	if dropFromLast < s.DropThreshold && dropFromPeak < s.DropThreshold {
		return nil
	}

	days := int(bar.Time.Sub(s.lastTradeDate).Hours() / 24)
	if days < s.MinIntervalDays {
		return nil
	}

	amount := s.Amount
	if acct.Cash < amount {
		amount = acct.Cash
	}
	if amount <= 0 {
		return nil
	}

	s.triggers++
	return &sim.TradeIntent{Side: sim.Buy, Notional: amount, Reason: "decline-dca"}
}

// OnFill resets the decline anchors to the executed price and date.
func (s *DeclineDCA) OnFill(f sim.Fill) {
	if f.Side != sim.Buy {
		return
	}
	s.lastTradePrice = f.Price
	s.peak = f.Price
	s.lastTradeDate = f.Time
}
