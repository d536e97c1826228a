package strategies

import (
	"dcasim/market"
	"dcasim/sim"
)

// NoopPolicy never trades. Useful as a baseline and in engine tests.
type NoopPolicy struct{}

func (NoopPolicy) Name() string { return "noop" }

func (NoopPolicy) Reset() {}

func (NoopPolicy) Decide(market.Bar, sim.Snapshot) *sim.TradeIntent {
	return nil
}
