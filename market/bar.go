// Package market holds the price data model: daily OHLCV bars and the
// validated, strictly ordered series the simulator replays.
package market

import (
	"fmt"
	"math"
	"time"
)

// Bar is one trading day's OHLCV record. Bars are immutable once the series
// owning them has been built.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Month returns the calendar month key (year*12+month) of the bar. Two bars
// share a key iff they fall in the same calendar month.
func (b Bar) Month() int {
	return b.Time.Year()*12 + int(b.Time.Month())
}

// DataIntegrityError reports corrupt input data. It is fatal: the run that
// encounters it must abort, per the error taxonomy.
type DataIntegrityError struct {
	Row    int // zero-based bar/row index, -1 when unknown
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("data integrity: %s", e.Reason)
	}
	return fmt.Sprintf("data integrity: row %d: %s", e.Row, e.Reason)
}

// BarSeries is an ordered sequence of daily bars for a single symbol.
// Construction validates the series; afterwards it is read-only.
type BarSeries struct {
	Symbol string
	Bars   []Bar
}

// NewBarSeries validates ordering and price sanity and returns the series.
// Timestamps must be strictly increasing with no duplicates, closes must be
// positive and all numeric fields finite.
func NewBarSeries(symbol string, bars []Bar) (*BarSeries, error) {
	for i, b := range bars {
		if err := checkBar(i, b); err != nil {
			return nil, err
		}
		if i > 0 && !bars[i-1].Time.Before(b.Time) {
			return nil, &DataIntegrityError{
				Row: i,
				Reason: fmt.Sprintf("timestamp %s not after previous %s",
					b.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339)),
			}
		}
	}
	return &BarSeries{Symbol: symbol, Bars: bars}, nil
}

func checkBar(i int, b Bar) error {
	if b.Time.IsZero() {
		return &DataIntegrityError{Row: i, Reason: "missing timestamp"}
	}
	if b.Close <= 0 {
		return &DataIntegrityError{Row: i, Reason: fmt.Sprintf("non-positive close %g", b.Close)}
	}
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DataIntegrityError{Row: i, Reason: "non-finite numeric field"}
		}
	}
	return nil
}

// Len returns the number of bars.
func (s *BarSeries) Len() int { return len(s.Bars) }

// At returns the bar at index i.
func (s *BarSeries) At(i int) Bar { return s.Bars[i] }

// Start returns the first bar's timestamp, or the zero time for an empty series.
func (s *BarSeries) Start() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[0].Time
}

// End returns the last bar's timestamp, or the zero time for an empty series.
func (s *BarSeries) End() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}

// Window returns a sub-series restricted to [from, to). A zero from or to
// leaves that side unbounded. The underlying bars are shared, not copied.
func (s *BarSeries) Window(from, to time.Time) *BarSeries {
	lo := 0
	for lo < len(s.Bars) && !from.IsZero() && s.Bars[lo].Time.Before(from) {
		lo++
	}
	hi := len(s.Bars)
	for hi > lo && !to.IsZero() && !s.Bars[hi-1].Time.Before(to) {
		hi--
	}
	return &BarSeries{Symbol: s.Symbol, Bars: s.Bars[lo:hi]}
}
