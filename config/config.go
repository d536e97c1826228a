// Package config loads and validates run configuration from YAML or JSON
// files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dcasim/strategies"
)

// Config represents a complete backtest run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID   string  `json:"id" yaml:"id"`
	Cash float64 `json:"cash" yaml:"cash"`
}

// DataConfig names the bar dataset and an optional replay window.
type DataConfig struct {
	File   string `json:"file" yaml:"file"`
	Symbol string `json:"symbol" yaml:"symbol"`
	From   string `json:"from,omitempty" yaml:"from,omitempty"` // YYYY-MM-DD, inclusive
	To     string `json:"to,omitempty" yaml:"to,omitempty"`     // YYYY-MM-DD, exclusive
}

// StrategyConfig selects a policy and its parameters.
type StrategyConfig struct {
	Name                 string  `json:"name" yaml:"name"`
	FixedCashAmount      float64 `json:"fixed_cash_amount,omitempty" yaml:"fixed_cash_amount,omitempty"`
	DropThreshold        float64 `json:"drop_threshold,omitempty" yaml:"drop_threshold,omitempty"`
	RiseThreshold        float64 `json:"rise_threshold,omitempty" yaml:"rise_threshold,omitempty"`
	MinIntervalDays      int     `json:"min_interval_days,omitempty" yaml:"min_interval_days,omitempty"`
	InitialInvestment    float64 `json:"initial_investment,omitempty" yaml:"initial_investment,omitempty"`
	AdditionalInvestment float64 `json:"additional_investment,omitempty" yaml:"additional_investment,omitempty"`
	SellAmount           float64 `json:"sell_amount,omitempty" yaml:"sell_amount,omitempty"`
	CommissionRate       float64 `json:"commission_rate,omitempty" yaml:"commission_rate,omitempty"`
}

// ToParams converts the config fields into policy parameters.
func (s StrategyConfig) ToParams() strategies.Params {
	return strategies.Params{
		FixedCashAmount:      s.FixedCashAmount,
		DropThreshold:        s.DropThreshold,
		RiseThreshold:        s.RiseThreshold,
		MinIntervalDays:      s.MinIntervalDays,
		InitialInvestment:    s.InitialInvestment,
		AdditionalInvestment: s.AdditionalInvestment,
		SellAmount:           s.SellAmount,
	}
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid. Policy parameter ranges are
// checked later by the policy constructors; this covers everything else.
func (c *Config) Validate() error {
	if c.Account.Cash < 0 {
		return fmt.Errorf("account.cash must be non-negative")
	}
	if c.Data.File == "" {
		return fmt.Errorf("data.file is required")
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	for _, d := range []struct{ field, val string }{
		{"data.from", c.Data.From},
		{"data.to", c.Data.To},
	} {
		if d.val == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d.val); err != nil {
			return fmt.Errorf("%s: want YYYY-MM-DD, got %q", d.field, d.val)
		}
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.CommissionRate < 0 {
		return fmt.Errorf("strategy.commission_rate must be non-negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Window parses the optional from/to dates. Zero times mean unbounded.
func (c *Config) Window() (from, to time.Time, err error) {
	if c.Data.From != "" {
		from, err = time.Parse("2006-01-02", c.Data.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.from: %w", err)
		}
	}
	if c.Data.To != "" {
		to, err = time.Parse("2006-01-02", c.Data.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.to: %w", err)
		}
	}
	return from, to, nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:   "SIM-001",
			Cash: 100000,
		},
		Data: DataConfig{
			File:   "./data/bars.csv",
			Symbol: "510300",
		},
		Strategy: StrategyConfig{
			Name:            "calendar-dca",
			FixedCashAmount: 1000,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./dcasim.db",
		},
	}
}
