package backtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcasim/strategies"
)

func TestSweepOrderAndParallelism(t *testing.T) {
	s := series(t, jan(2), 100, 100, 95, 102, 96, 90, 94, 88, 91, 99)

	drops := []float64{0.03, 0.05, 0.10}
	specs := make([]RunSpec, 0, len(drops))
	for _, drop := range drops {
		specs = append(specs, RunSpec{
			Name:        fmt.Sprintf("drop=%.2f", drop),
			Series:      s,
			InitialCash: 50_000,
			Policy: func() (strategies.Policy, error) {
				return strategies.NewDeclineDCA(1_000, drop, 0)
			},
		})
	}

	results, err := Sweep(context.Background(), specs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results come back in spec order regardless of completion order.
	for i, r := range results {
		assert.Equal(t, specs[i].Name, r.Name)
		require.NotNil(t, r.Result)
	}

	// A looser trigger can never fill less often than a tighter one.
	assert.GreaterOrEqual(t, results[0].Summary.Fills, results[1].Summary.Fills)
	assert.GreaterOrEqual(t, results[1].Summary.Fills, results[2].Summary.Fills)
}

func TestSweepMatchesSingleRun(t *testing.T) {
	s := series(t, jan(2), 100, 100, 95, 102, 96, 90)

	specs := []RunSpec{{
		Name:        "solo",
		Series:      s,
		InitialCash: 20_000,
		Policy: func() (strategies.Policy, error) {
			return strategies.NewDeclineDCA(1_000, 0.05, 0)
		},
	}}

	results, err := Sweep(context.Background(), specs, 4)
	require.NoError(t, err)

	e := newEngine(t, s, 20_000)
	policy, err := strategies.NewDeclineDCA(1_000, 0.05, 0)
	require.NoError(t, err)
	solo, err := e.Run(policy)
	require.NoError(t, err)

	assert.Equal(t, solo.Fills, results[0].Result.Fills)
	assert.Equal(t, solo.Equity, results[0].Result.Equity)
}

func TestSweepBadSpecFails(t *testing.T) {
	s := series(t, jan(2), 100, 95)

	specs := []RunSpec{{
		Name:        "bad",
		Series:      s,
		InitialCash: 1_000,
		Policy: func() (strategies.Policy, error) {
			return strategies.NewDeclineDCA(0, 0.05, 0) // invalid amount
		},
	}}

	_, err := Sweep(context.Background(), specs, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sweep "bad"`)
}

func TestSweepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := series(t, jan(2), 100, 95)
	specs := []RunSpec{{
		Name:        "x",
		Series:      s,
		InitialCash: 1_000,
		Policy: func() (strategies.Policy, error) {
			return strategies.NewDeclineDCA(1_000, 0.05, 0)
		},
	}}

	_, err := Sweep(ctx, specs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
