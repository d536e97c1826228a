package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dcasim/backtest"
	"dcasim/config"
	"dcasim/internal/id"
	"dcasim/journal"
	"dcasim/market"
	"dcasim/sim"
	"dcasim/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest of one policy over a daily bar dataset",
	Long: `Backtest replays a daily OHLCV CSV through a simulated account.

Supported strategies:
  - noop: holds cash (baseline)
  - calendar-dca: buys a fixed amount on the first bar of each month
  - decline-dca: buys a fixed amount on price declines, rate-limited
  - drawdown-ladder: buys on drawdowns from a resettable peak
  - drawdown-ladder-sell: drawdown ladder plus a take-profit sell leg

Example:
  dcasim backtest --data data/510300.csv --strategy calendar-dca --amount 1000`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btDataPath   string
	btSymbol     string
	btFrom       string
	btTo         string
	btCash       float64
	btStrategy   string
	btAmount     float64
	btDrop       float64
	btRise       float64
	btInterval   int
	btInitial    float64
	btAdditional float64
	btSellAmount float64
	btCommission float64
	btJournal    string
	btDBPath     string
	btFillsFile  string
	btEquityFile string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file (YAML or JSON); flags override nothing when set")

	backtestCmd.Flags().StringVarP(&btDataPath, "data", "t", "", "path to daily bar CSV (datetime,open,high,low,close,volume)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "i", "510300", "symbol label for the dataset")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "replay window start, YYYY-MM-DD inclusive")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "replay window end, YYYY-MM-DD exclusive")
	backtestCmd.Flags().Float64VarP(&btCash, "cash", "b", 100_000, "starting cash balance")

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "calendar-dca", "strategy name (noop, calendar-dca, decline-dca, drawdown-ladder, drawdown-ladder-sell)")
	backtestCmd.Flags().Float64VarP(&btAmount, "amount", "a", 1000, "fixed cash amount per DCA buy")
	backtestCmd.Flags().Float64Var(&btDrop, "drop", 0.05, "fractional decline trigger, in (0,1)")
	backtestCmd.Flags().Float64Var(&btRise, "rise", 0.10, "drawdown-ladder-sell: fractional rise trigger, in (0,1)")
	backtestCmd.Flags().IntVar(&btInterval, "min-interval", 7, "decline-dca: minimum days between buys")
	backtestCmd.Flags().Float64Var(&btInitial, "initial", 0, "drawdown-ladder: lump sum invested at start")
	backtestCmd.Flags().Float64Var(&btAdditional, "additional", 1000, "drawdown-ladder: cash amount per drawdown buy")
	backtestCmd.Flags().Float64Var(&btSellAmount, "sell-amount", 1000, "drawdown-ladder-sell: cash amount per sell")
	backtestCmd.Flags().Float64Var(&btCommission, "commission", 0, "proportional commission rate (0.001 = 0.1%)")

	backtestCmd.Flags().StringVar(&btJournal, "journal", "none", "journal type (none, csv, sqlite)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./dcasim.db", "path to SQLite journal DB")
	backtestCmd.Flags().StringVar(&btFillsFile, "fills-file", "./fills.csv", "CSV journal: fills output path")
	backtestCmd.Flags().StringVar(&btEquityFile, "equity-file", "./equity.csv", "CSV journal: equity output path")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := backtestConfig()
	if err != nil {
		return err
	}

	series, err := loadSeries(cfg)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("dataset %s has no bars in the requested window", cfg.Data.File)
	}

	policy, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.ToParams())
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	ledger, err := sim.NewLedger(cfg.Account.Cash)
	if err != nil {
		return err
	}

	var commission sim.Commission
	if cfg.Strategy.CommissionRate > 0 {
		commission = sim.ProportionalCommission(cfg.Strategy.CommissionRate)
	}
	engine := backtest.NewEngine(series, ledger, sim.NewExecutor(commission))

	runID := id.New()
	j, sqlj, err := openJournal(cfg, runID)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		engine.SetJournal(j, runID)
		fmt.Printf("Run ID: %s\n", runID)
	}

	fmt.Printf("Running backtest with strategy: %s\n", cfg.Strategy.Name)
	fmt.Printf("  Data: %s (%d bars)\n\n", cfg.Data.File, series.Len())

	res, err := engine.Run(policy)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	s := res.Summarize()
	backtest.PrintSummary(os.Stdout, s)

	if sqlj != nil {
		cfgJSON, _ := json.Marshal(cfg)
		if err := sqlj.RecordRun(journal.RunRecord{
			RunID:         runID,
			Created:       time.Now().UTC(),
			Symbol:        s.Symbol,
			Strategy:      s.Policy,
			Config:        cfgJSON,
			Start:         s.Start,
			End:           s.End,
			Bars:          s.Bars,
			Fills:         s.Fills,
			Rejections:    s.Rejections,
			InitialCash:   s.InitialCash,
			FinalEquity:   s.FinalEquity,
			ReturnPct:     s.ReturnPct,
			AnnualizedPct: s.AnnualizedPct,
			MaxDDPct:      s.MaxDrawdownPct,
			Sharpe:        s.Sharpe,
		}); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	return nil
}

// backtestConfig assembles the effective config: the --config file when
// given, otherwise the flags.
func backtestConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}
	if btDataPath == "" {
		return nil, fmt.Errorf("either --config or --data is required")
	}

	cfg := &config.Config{
		Account: config.AccountConfig{ID: "SIM-001", Cash: btCash},
		Data: config.DataConfig{
			File:   btDataPath,
			Symbol: btSymbol,
			From:   btFrom,
			To:     btTo,
		},
		Strategy: config.StrategyConfig{
			Name:                 btStrategy,
			FixedCashAmount:      btAmount,
			DropThreshold:        btDrop,
			RiseThreshold:        btRise,
			MinIntervalDays:      btInterval,
			InitialInvestment:    btInitial,
			AdditionalInvestment: btAdditional,
			SellAmount:           btSellAmount,
			CommissionRate:       btCommission,
		},
		Journal: config.JournalConfig{
			Type:       btJournal,
			DBPath:     btDBPath,
			FillsFile:  btFillsFile,
			EquityFile: btEquityFile,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSeries(cfg *config.Config) (*market.BarSeries, error) {
	series, err := market.LoadCSV(cfg.Data.File, cfg.Data.Symbol)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	from, to, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	if !from.IsZero() || !to.IsZero() {
		series = series.Window(from, to)
	}
	return series, nil
}

// openJournal builds the configured journal. The second return is non-nil
// only for SQLite, which additionally stores run summaries.
func openJournal(cfg *config.Config, runID string) (journal.Journal, *journal.SQLite, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil, nil
	case "csv":
		j, err := journal.NewCSV(cfg.Journal.FillsFile, cfg.Journal.EquityFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil, nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath, runID)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		return j, j, nil
	default:
		return nil, nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}
