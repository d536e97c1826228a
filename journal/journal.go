// Package journal persists backtest output: the fill history, the per-bar
// equity curve, and per-run summary metadata. Backends: SQLite and CSV.
package journal

import "time"

// FillRecord is one executed trade as stored by a journal.
type FillRecord struct {
	RunID      string
	Time       time.Time
	Side       string // "buy" or "sell"
	Price      float64
	Units      float64
	Commission float64
	Reason     string
}

// EquitySnapshot is one per-bar portfolio snapshot.
type EquitySnapshot struct {
	RunID         string
	Time          time.Time
	Cash          float64
	PositionValue float64
	Equity        float64
}

// RunRecord summarizes a completed backtest run.
type RunRecord struct {
	RunID   string
	Created time.Time

	Symbol   string
	Strategy string
	Config   []byte // strategy parameters, serialized

	Start time.Time
	End   time.Time

	Bars       int
	Fills      int
	Rejections int

	InitialCash   float64
	FinalEquity   float64
	ReturnPct     float64
	AnnualizedPct float64
	MaxDDPct      float64
	Sharpe        float64
}

// Journal receives records as the engine produces them.
type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
