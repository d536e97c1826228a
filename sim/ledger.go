// Package sim implements the brokerage side of a replay: the cash/position
// ledger and the executor that turns trade intents into fills at the current
// bar's close.
package sim

import (
	"fmt"
	"time"
)

// Side of a trade.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// Position is the single asset holding: size in units and the size-weighted
// average cost of the units still held. Zero units implies zero average cost.
type Position struct {
	Units   float64
	AvgCost float64
}

// Value marks the position at the given price.
func (p Position) Value(price float64) float64 {
	return p.Units * price
}

// Fill is a completed trade. Immutable once created.
type Fill struct {
	Time       time.Time
	Side       Side
	Price      float64
	Units      float64
	Commission float64
	Reason     string
}

// Notional is the cash amount of the fill before commission.
func (f Fill) Notional() float64 {
	return f.Price * f.Units
}

// Ledger owns the cash balance and the asset position. Only ApplyFill
// mutates it; everything else is read-only. The ledger never allows cash to
// go negative and never allows selling more than is held.
type Ledger struct {
	cash float64
	pos  Position
}

// Snapshot is a read-only view of the ledger handed to policies each bar.
type Snapshot struct {
	Cash     float64
	Position Position
}

// NewLedger creates a ledger holding the initial cash and no position.
func NewLedger(cash float64) (*Ledger, error) {
	if cash < 0 {
		return nil, fmt.Errorf("initial cash must be non-negative, got %g", cash)
	}
	return &Ledger{cash: cash}, nil
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Position returns the current holding.
func (l *Ledger) Position() Position { return l.pos }

// Snapshot returns the current read-only view.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Cash: l.cash, Position: l.pos}
}

// Equity is cash plus the position marked at price.
func (l *Ledger) Equity(price float64) float64 {
	return l.cash + l.pos.Value(price)
}

// ApplyFill applies a completed trade to cash and position.
//
// Buys decrease cash by price*units + commission and recompute the average
// cost as a size-weighted moving average. Sells increase cash by
// price*units - commission and leave the average cost of the remaining units
// untouched (no realized-P&L tracking, by contract).
func (l *Ledger) ApplyFill(f Fill) error {
	if f.Units <= 0 {
		return fmt.Errorf("apply fill: units must be positive, got %g", f.Units)
	}
	if f.Price <= 0 {
		return fmt.Errorf("apply fill: price must be positive, got %g", f.Price)
	}

	switch f.Side {
	case Buy:
		cost := f.Notional() + f.Commission
		if cost > l.cash {
			return fmt.Errorf("apply fill: cost %.6f exceeds cash %.6f: %w", cost, l.cash, ErrInsufficientCash)
		}
		newUnits := l.pos.Units + f.Units
		l.pos.AvgCost = (l.pos.Units*l.pos.AvgCost + f.Units*f.Price) / newUnits
		l.pos.Units = newUnits
		l.cash -= cost

	case Sell:
		if f.Units > l.pos.Units {
			return fmt.Errorf("apply fill: sell %.6f units, holding %.6f: %w", f.Units, l.pos.Units, ErrInsufficientPosition)
		}
		proceeds := f.Notional() - f.Commission
		if l.cash+proceeds < 0 {
			return fmt.Errorf("apply fill: commission %.6f exceeds proceeds and cash: %w", f.Commission, ErrInsufficientCash)
		}
		l.pos.Units -= f.Units
		if l.pos.Units == 0 {
			l.pos.AvgCost = 0
		}
		l.cash += proceeds

	default:
		return fmt.Errorf("apply fill: unknown side %v", f.Side)
	}
	return nil
}
