package strategies

import (
	"dcasim/market"
	"dcasim/sim"
)

// CalendarDCA invests a fixed cash amount on the first trading day of every
// calendar month. The month marker advances as soon as a boundary is seen,
// whether or not any cash was available, so the policy can never fire twice
// in one month.
type CalendarDCA struct {
	Amount float64 // notional per monthly buy

	lastMonth int
}

// NewCalendarDCA validates the monthly amount and returns the policy.
func NewCalendarDCA(amount float64) (*CalendarDCA, error) {
	if err := checkPositive("fixed_cash_amount", amount); err != nil {
		return nil, err
	}
	s := &CalendarDCA{Amount: amount}
	s.Reset()
	return s, nil
}

func (s *CalendarDCA) Name() string { return "calendar-dca" }

func (s *CalendarDCA) Reset() {
	s.lastMonth = -1
}

func (s *CalendarDCA) Decide(bar market.Bar, acct sim.Snapshot) *sim.TradeIntent {
	m := bar.Month()
	if m == s.lastMonth {
		return nil
	}
	s.lastMonth = m

	amount := s.Amount
	if acct.Cash < amount {
		amount = acct.Cash
	}
	if amount <= 0 {
		return nil
	}
	return &sim.TradeIntent{Side: sim.Buy, Notional: amount, Reason: "monthly-dca"}
}
