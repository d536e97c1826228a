package sim

import (
	"fmt"
	"time"

	"dcasim/market"
)

// TradeIntent is a policy's proposal for the current bar. It is consumed in
// the same bar it is produced; there is no pending-order state.
//
// Exactly one of Notional (cash amount) or Units must be positive. Buys are
// typically notional-sized; sells may be either.
type TradeIntent struct {
	Side     Side
	Notional float64
	Units    float64
	Reason   string
}

// Rejection records an intent the executor refused. Recoverable: the run
// continues.
type Rejection struct {
	Time   time.Time
	Side   Side
	Reason string // reason tag of the rejected intent
	Cause  error  // ErrInsufficientCash or ErrInsufficientPosition
}

// Commission computes the fee for a trade of units at price. Must be
// non-negative.
type Commission func(price, units float64) float64

// NoCommission charges nothing. All sample policies run commission-free.
func NoCommission(price, units float64) float64 { return 0 }

// ProportionalCommission charges rate * notional.
func ProportionalCommission(rate float64) Commission {
	return func(price, units float64) float64 {
		return rate * price * units
	}
}

// FlatCommission charges a fixed fee per fill.
func FlatCommission(fee float64) Commission {
	return func(price, units float64) float64 {
		return fee
	}
}

// Executor fills trade intents against the current bar's close price
// (cash-on-close: no next-bar delay, no slippage, no partial fills). It is
// the final authority on cash and position sufficiency.
type Executor struct {
	commission Commission
}

// NewExecutor creates an executor with the given commission model; nil means
// commission-free.
func NewExecutor(c Commission) *Executor {
	if c == nil {
		c = NoCommission
	}
	return &Executor{commission: c}
}

// Execute resolves an intent against bar and ledger. Exactly one of the
// returns is meaningful: a fill, a rejection, or a fatal error. A fatal
// error means corrupt input (non-positive close) and aborts the run.
//
// Buys whose cost exceeds available cash are clamped down to the maximum
// affordable size; if even that is nothing, the intent is rejected with
// ErrInsufficientCash. Sells exceeding the current holding are rejected with
// ErrInsufficientPosition. Cash never goes negative.
func (e *Executor) Execute(intent TradeIntent, bar market.Bar, l *Ledger) (*Fill, *Rejection, error) {
	price := bar.Close
	if price <= 0 {
		return nil, nil, &market.DataIntegrityError{
			Row:    -1,
			Reason: fmt.Sprintf("non-positive close %g at %s", price, bar.Time.Format("2006-01-02")),
		}
	}

	units := intent.Units
	if units <= 0 {
		units = intent.Notional / price
	}
	if units <= 0 {
		return nil, &Rejection{Time: bar.Time, Side: intent.Side, Reason: intent.Reason, Cause: ErrInsufficientCash}, nil
	}

	switch intent.Side {
	case Buy:
		cost := units*price + e.commission(price, units)
		if cost > l.Cash() {
			units = e.maxAffordableUnits(price, l.Cash())
			if units <= 0 {
				return nil, &Rejection{Time: bar.Time, Side: Buy, Reason: intent.Reason, Cause: ErrInsufficientCash}, nil
			}
		}
	case Sell:
		if units > l.Position().Units {
			return nil, &Rejection{Time: bar.Time, Side: Sell, Reason: intent.Reason, Cause: ErrInsufficientPosition}, nil
		}
	default:
		return nil, nil, fmt.Errorf("execute: unknown side %v", intent.Side)
	}

	f := &Fill{
		Time:       bar.Time,
		Side:       intent.Side,
		Price:      price,
		Units:      units,
		Commission: e.commission(price, units),
		Reason:     intent.Reason,
	}
	return f, nil, nil
}

// maxAffordableUnits finds the largest size whose cost including commission
// fits in cash. Exact for zero commission; for other models it refines a few
// fixed-point steps and then checks the result, so a fill never overdraws.
func (e *Executor) maxAffordableUnits(price, cash float64) float64 {
	if cash <= 0 {
		return 0
	}
	u := cash / price
	for i := 0; i < 8; i++ {
		cost := u*price + e.commission(price, u)
		if cost <= cash {
			break
		}
		next := (cash - e.commission(price, u)) / price
		if next >= u {
			next = u * 0.999
		}
		u = next
		if u <= 0 {
			return 0
		}
	}
	if u*price+e.commission(price, u) > cash {
		return 0
	}
	return u
}
