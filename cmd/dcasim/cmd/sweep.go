package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dcasim/backtest"
	"dcasim/config"
	"dcasim/sim"
	"dcasim/strategies"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one strategy across a range of drop thresholds",
	Long: `Sweep runs the same strategy and dataset once per drop threshold and
prints a comparison table. Runs execute in parallel; results are reported
in threshold order.

Example:
  dcasim sweep --data data/510300.csv --strategy decline-dca --drops 0.03,0.05,0.10`,
	RunE: runSweep,
}

var (
	swDrops    string
	swParallel int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&btDataPath, "data", "t", "", "path to daily bar CSV (required)")
	sweepCmd.Flags().StringVarP(&btSymbol, "symbol", "i", "510300", "symbol label for the dataset")
	sweepCmd.Flags().StringVar(&btFrom, "from", "", "replay window start, YYYY-MM-DD inclusive")
	sweepCmd.Flags().StringVar(&btTo, "to", "", "replay window end, YYYY-MM-DD exclusive")
	sweepCmd.Flags().Float64VarP(&btCash, "cash", "b", 100_000, "starting cash balance")

	sweepCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "decline-dca", "strategy name")
	sweepCmd.Flags().Float64VarP(&btAmount, "amount", "a", 1000, "fixed cash amount per DCA buy")
	sweepCmd.Flags().Float64Var(&btRise, "rise", 0.10, "drawdown-ladder-sell: fractional rise trigger")
	sweepCmd.Flags().IntVar(&btInterval, "min-interval", 7, "decline-dca: minimum days between buys")
	sweepCmd.Flags().Float64Var(&btInitial, "initial", 0, "drawdown-ladder: lump sum invested at start")
	sweepCmd.Flags().Float64Var(&btAdditional, "additional", 1000, "drawdown-ladder: cash amount per drawdown buy")
	sweepCmd.Flags().Float64Var(&btSellAmount, "sell-amount", 1000, "drawdown-ladder-sell: cash amount per sell")
	sweepCmd.Flags().Float64Var(&btCommission, "commission", 0, "proportional commission rate")

	sweepCmd.Flags().StringVar(&swDrops, "drops", "0.03,0.05,0.10", "comma-separated drop thresholds")
	sweepCmd.Flags().IntVarP(&swParallel, "parallel", "p", runtime.NumCPU(), "maximum concurrent runs")

	sweepCmd.MarkFlagRequired("data")
}

func runSweep(cmd *cobra.Command, args []string) error {
	drops, err := parseDrops(swDrops)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Account: config.AccountConfig{ID: "SIM-SWEEP", Cash: btCash},
		Data:    config.DataConfig{File: btDataPath, Symbol: btSymbol, From: btFrom, To: btTo},
	}
	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("dataset %s has no bars in the requested window", btDataPath)
	}

	var commission sim.Commission
	if btCommission > 0 {
		commission = sim.ProportionalCommission(btCommission)
	}

	specs := make([]backtest.RunSpec, 0, len(drops))
	for _, drop := range drops {
		params := strategies.Params{
			FixedCashAmount:      btAmount,
			DropThreshold:        drop,
			RiseThreshold:        btRise,
			MinIntervalDays:      btInterval,
			InitialInvestment:    btInitial,
			AdditionalInvestment: btAdditional,
			SellAmount:           btSellAmount,
		}
		specs = append(specs, backtest.RunSpec{
			Name:        fmt.Sprintf("drop=%.2f%%", drop*100),
			Series:      series,
			InitialCash: btCash,
			Commission:  commission,
			Policy: func() (strategies.Policy, error) {
				return strategies.ByName(btStrategy, params)
			},
		})
	}

	fmt.Printf("Sweeping %s over %d thresholds (%d bars)\n\n", btStrategy, len(specs), series.Len())

	results, err := backtest.Sweep(cmd.Context(), specs, swParallel)
	if err != nil {
		return err
	}

	fmt.Printf("%-14s %6s %6s %10s %10s %10s %8s\n",
		"run", "fills", "rejects", "return%", "annual%", "maxDD%", "sharpe")
	for _, r := range results {
		s := r.Summary
		fmt.Printf("%-14s %6d %6d %10.2f %10.2f %10.2f %8.2f\n",
			r.Name, s.Fills, s.Rejections, s.ReturnPct, s.AnnualizedPct, s.MaxDrawdownPct, s.Sharpe)
	}
	return nil
}

func parseDrops(s string) ([]float64, error) {
	var drops []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad drop threshold %q: %w", part, err)
		}
		drops = append(drops, v)
	}
	if len(drops) == 0 {
		return nil, fmt.Errorf("no drop thresholds given")
	}
	return drops, nil
}
