package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dcasim/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query past runs from the journal database",
	Long: `Report reads the SQLite journal and displays stored runs.

Subcommands:
  runs   - List all recorded runs
  show   - Show the summary and fills of one run

Examples:
  dcasim report runs
  dcasim report show 01J8ZK...`,
}

var reportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runReportRuns,
}

var reportShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the summary and fill history of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportDBPath string

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportRunsCmd)
	reportCmd.AddCommand(reportShowCmd)

	reportCmd.PersistentFlags().StringVarP(&reportDBPath, "db", "d", "./dcasim.db", "path to SQLite journal DB")
}

func runReportRuns(cmd *cobra.Command, args []string) error {
	r, err := journal.OpenReader(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer r.Close()

	recs, err := r.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-26s %-10s %-20s %6s %10s %10s\n",
		"run", "symbol", "strategy", "fills", "return%", "maxDD%")
	for _, rec := range recs {
		fmt.Printf("%-26s %-10s %-20s %6d %10.2f %10.2f\n",
			rec.RunID, rec.Symbol, rec.Strategy, rec.Fills, rec.ReturnPct, rec.MaxDDPct)
	}
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	r, err := journal.OpenReader(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer r.Close()

	runID := args[0]
	rec, err := r.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run:             %s\n", rec.RunID)
	fmt.Printf("Created:         %s\n", rec.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Symbol:          %s\n", rec.Symbol)
	fmt.Printf("Strategy:        %s\n", rec.Strategy)
	fmt.Printf("Period:          %s .. %s (%d bars)\n",
		rec.Start.Format("2006-01-02"), rec.End.Format("2006-01-02"), rec.Bars)
	fmt.Printf("Fills:           %d (%d rejected)\n", rec.Fills, rec.Rejections)
	fmt.Printf("Initial cash:    %.2f\n", rec.InitialCash)
	fmt.Printf("Final equity:    %.2f\n", rec.FinalEquity)
	fmt.Printf("Return:          %.2f%%\n", rec.ReturnPct)
	fmt.Printf("Annualized:      %.2f%%\n", rec.AnnualizedPct)
	fmt.Printf("Max drawdown:    %.2f%%\n", rec.MaxDDPct)
	fmt.Printf("Sharpe:          %.2f\n", rec.Sharpe)

	fills, err := r.ListFills(runID)
	if err != nil {
		return fmt.Errorf("list fills: %w", err)
	}
	if len(fills) == 0 {
		return nil
	}

	fmt.Printf("\n%-12s %-5s %12s %14s %12s %s\n",
		"date", "side", "price", "units", "commission", "reason")
	for _, f := range fills {
		fmt.Printf("%-12s %-5s %12.4f %14.6f %12.4f %s\n",
			f.Time.Format("2006-01-02"), f.Side, f.Price, f.Units, f.Commission, f.Reason)
	}
	return nil
}
