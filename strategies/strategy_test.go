package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	p := Params{
		FixedCashAmount:      1_000,
		DropThreshold:        0.05,
		RiseThreshold:        0.10,
		MinIntervalDays:      7,
		InitialInvestment:    5_000,
		AdditionalInvestment: 1_000,
		SellAmount:           1_000,
	}

	for name, want := range map[string]string{
		"noop":                 "noop",
		"none":                 "noop",
		"calendar-dca":         "calendar-dca",
		"dca":                  "calendar-dca",
		"decline-dca":          "decline-dca",
		"drawdown-ladder":      "drawdown-ladder",
		"drawdown-ladder-sell": "drawdown-ladder-sell",
		" Calendar-DCA ":       "calendar-dca",
	} {
		pol, err := ByName(name, p)
		require.NoError(t, err, name)
		assert.Equal(t, want, pol.Name())
	}

	_, err := ByName("martingale", p)
	assert.Error(t, err)
}

func TestByNamePropagatesConfigErrors(t *testing.T) {
	_, err := ByName("calendar-dca", Params{})
	require.Error(t, err)

	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}
