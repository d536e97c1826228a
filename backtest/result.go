package backtest

import (
	"fmt"
	"io"
	"math"
	"time"

	"dcasim/sim"
)

// Trading days per year, used for annualizing returns and Sharpe.
const tradingDaysPerYear = 252

// Result is the complete outcome of one replay: the full fill, rejection,
// and equity histories.
type Result struct {
	Symbol      string
	Policy      string
	InitialCash float64

	Fills      []sim.Fill
	Rejections []sim.Rejection
	Equity     []EquityPoint
}

// Summary condenses a Result into the headline figures.
type Summary struct {
	Symbol string
	Policy string

	Start time.Time
	End   time.Time
	Bars  int

	Fills      int
	Buys       int
	Sells      int
	Rejections int

	TotalInvested float64 // cash spent on buys, before commission
	TotalProceeds float64 // cash received from sells, before commission
	Commission    float64

	InitialCash float64
	FinalCash   float64
	FinalUnits  float64
	FinalEquity float64

	ReturnPct      float64
	AnnualizedPct  float64
	MaxDrawdownPct float64
	Sharpe         float64
}

// Summarize computes the summary figures from the histories.
func (r *Result) Summarize() Summary {
	s := Summary{
		Symbol:      r.Symbol,
		Policy:      r.Policy,
		Bars:        len(r.Equity),
		Fills:       len(r.Fills),
		Rejections:  len(r.Rejections),
		InitialCash: r.InitialCash,
	}

	for _, f := range r.Fills {
		s.Commission += f.Commission
		switch f.Side {
		case sim.Buy:
			s.Buys++
			s.TotalInvested += f.Notional()
		case sim.Sell:
			s.Sells++
			s.TotalProceeds += f.Notional()
		}
	}

	if len(r.Equity) == 0 {
		s.FinalCash = r.InitialCash
		s.FinalEquity = r.InitialCash
		return s
	}

	s.Start = r.Equity[0].Time
	s.End = r.Equity[len(r.Equity)-1].Time

	last := r.Equity[len(r.Equity)-1]
	s.FinalCash = last.Cash
	s.FinalEquity = last.Equity
	s.FinalUnits = finalUnits(r.Fills)

	if r.InitialCash > 0 {
		s.ReturnPct = (s.FinalEquity/r.InitialCash - 1) * 100
		s.AnnualizedPct = annualized(r.InitialCash, s.FinalEquity, len(r.Equity)) * 100
	}
	s.MaxDrawdownPct = maxDrawdown(r.Equity) * 100
	s.Sharpe = sharpe(r.Equity)
	return s
}

func finalUnits(fills []sim.Fill) float64 {
	var u float64
	for _, f := range fills {
		switch f.Side {
		case sim.Buy:
			u += f.Units
		case sim.Sell:
			u -= f.Units
		}
	}
	return u
}

// annualized converts a total return over bars trading days to a yearly
// rate. Runs shorter than one bar, or with non-positive endpoints, yield 0.
func annualized(initial, final float64, bars int) float64 {
	if bars < 1 || initial <= 0 || final <= 0 {
		return 0
	}
	return math.Pow(final/initial, tradingDaysPerYear/float64(bars)) - 1
}

// maxDrawdown is the largest peak-to-trough decline of the equity curve,
// as a fraction of the running peak.
func maxDrawdown(curve []EquityPoint) float64 {
	var peak, maxDD float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpe is the annualized Sharpe ratio of daily log returns with a zero
// risk-free rate. Flat curves (zero variance) yield 0.
func sharpe(curve []EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev, cur := curve[i-1].Equity, curve[i].Equity
		if prev <= 0 || cur <= 0 {
			return 0
		}
		rets = append(rets, math.Log(cur/prev))
	}

	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	var variance float64
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	if len(rets) < 2 {
		return 0
	}
	variance /= float64(len(rets) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// PrintSummary writes a human-readable summary block to w.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "=== Backtest: %s / %s ===\n", s.Symbol, s.Policy)
	fmt.Fprintf(w, "Period:          %s .. %s (%d bars)\n",
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Bars)
	fmt.Fprintf(w, "Fills:           %d (%d buys, %d sells), %d rejected\n",
		s.Fills, s.Buys, s.Sells, s.Rejections)
	fmt.Fprintf(w, "Invested:        %.2f\n", s.TotalInvested)
	if s.Sells > 0 {
		fmt.Fprintf(w, "Proceeds:        %.2f\n", s.TotalProceeds)
	}
	if s.Commission > 0 {
		fmt.Fprintf(w, "Commission:      %.2f\n", s.Commission)
	}
	fmt.Fprintf(w, "Initial cash:    %.2f\n", s.InitialCash)
	fmt.Fprintf(w, "Final cash:      %.2f\n", s.FinalCash)
	fmt.Fprintf(w, "Final units:     %.6f\n", s.FinalUnits)
	fmt.Fprintf(w, "Final equity:    %.2f\n", s.FinalEquity)
	fmt.Fprintf(w, "Return:          %.2f%%\n", s.ReturnPct)
	fmt.Fprintf(w, "Annualized:      %.2f%%\n", s.AnnualizedPct)
	fmt.Fprintf(w, "Max drawdown:    %.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe:          %.2f\n", s.Sharpe)
}
