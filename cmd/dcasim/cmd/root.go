package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dcasim",
	Short: "A deterministic daily-bar backtester for DCA-style investment policies",
	Long: `dcasim replays daily OHLCV bars through a simulated brokerage account
to evaluate rule-based investment policies.

It provides tools for:
  - Backtesting calendar DCA, decline-triggered DCA, and drawdown-ladder policies
  - Sweeping policy parameters across runs in parallel
  - Journaling fills and equity curves to SQLite or CSV
  - Reporting on past runs from the journal database`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
