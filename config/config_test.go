package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
account:
  id: SIM-001
  cash: 50000
data:
  file: ./data/510300.csv
  symbol: "510300"
  from: "2020-01-01"
  to: "2023-01-01"
strategy:
  name: decline-dca
  fixed_cash_amount: 1000
  drop_threshold: 0.05
  min_interval_days: 7
journal:
  type: sqlite
  db_path: ./dcasim.db
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	cfg, err := LoadFromFile(writeFile(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 50_000.0, cfg.Account.Cash)
	assert.Equal(t, "510300", cfg.Data.Symbol)
	assert.Equal(t, "decline-dca", cfg.Strategy.Name)
	assert.Equal(t, 0.05, cfg.Strategy.DropThreshold)
	assert.Equal(t, 7, cfg.Strategy.MinIntervalDays)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFileJSON(t *testing.T) {
	raw := `{
		"account": {"id": "SIM-001", "cash": 10000},
		"data": {"file": "./bars.csv", "symbol": "510300"},
		"strategy": {"name": "calendar-dca", "fixed_cash_amount": 1000},
		"journal": {"type": "none"}
	}`
	cfg, err := LoadFromFile(writeFile(t, "config.json", raw))
	require.NoError(t, err)
	assert.Equal(t, "calendar-dca", cfg.Strategy.Name)
}

func TestLoadFromFileInvalid(t *testing.T) {
	_, err := LoadFromFile(writeFile(t, "config.yaml", "data:\n  file: ./x.csv\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Account:  AccountConfig{Cash: 1_000},
			Data:     DataConfig{File: "./x.csv", Symbol: "510300"},
			Strategy: StrategyConfig{Name: "noop"},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Account.Cash = -1
	assert.Error(t, c.Validate())

	c = base()
	c.Data.File = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Data.From = "01/02/2020"
	assert.Error(t, c.Validate())

	c = base()
	c.Strategy.Name = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Strategy.CommissionRate = -0.001
	assert.Error(t, c.Validate())

	c = base()
	c.Journal.Type = "csv"
	assert.Error(t, c.Validate()) // missing file paths
	c.Journal.FillsFile = "./fills.csv"
	c.Journal.EquityFile = "./equity.csv"
	assert.NoError(t, c.Validate())

	c = base()
	c.Journal.Type = "postgres"
	assert.Error(t, c.Validate())
}

func TestWindow(t *testing.T) {
	c := &Config{Data: DataConfig{From: "2020-01-01", To: "2023-06-30"}}

	from, to, err := c.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC), to)

	empty := &Config{}
	from, to, err = empty.Window()
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Strategy.Name, loaded.Strategy.Name)
	assert.Equal(t, cfg.Account.Cash, loaded.Account.Cash)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestToParams(t *testing.T) {
	s := StrategyConfig{
		FixedCashAmount:      1_000,
		DropThreshold:        0.05,
		RiseThreshold:        0.10,
		MinIntervalDays:      7,
		InitialInvestment:    5_000,
		AdditionalInvestment: 2_000,
		SellAmount:           1_500,
	}
	p := s.ToParams()
	assert.Equal(t, 1_000.0, p.FixedCashAmount)
	assert.Equal(t, 0.05, p.DropThreshold)
	assert.Equal(t, 0.10, p.RiseThreshold)
	assert.Equal(t, 7, p.MinIntervalDays)
	assert.Equal(t, 5_000.0, p.InitialInvestment)
	assert.Equal(t, 2_000.0, p.AdditionalInvestment)
	assert.Equal(t, 1_500.0, p.SellAmount)
}
