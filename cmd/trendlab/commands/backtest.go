package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/internal/pipeline"
	"github.com/wonny/trendlab/backend/internal/predictor"
	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/pkg/database"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Train and backtest the directional model",
}

var backtestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for one or all tickers",
	Long: `Runs normalize, feature/label construction, embargoed split, model
training and cost-aware simulation on the test segment.

Example:
  go run ./cmd/trendlab backtest run --ticker PETR4
  go run ./cmd/trendlab backtest run --all --range 5y
  go run ./cmd/trendlab backtest run --ticker VALE3 --save`,
	RunE: runBacktest,
}

var (
	backtestTicker  string
	backtestAll     bool
	backtestRange   string
	backtestSave    bool
	backtestHorizon string
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)

	backtestRunCmd.Flags().StringVar(&backtestTicker, "ticker", "", "single ticker to backtest")
	backtestRunCmd.Flags().BoolVar(&backtestAll, "all", false, "backtest the whole universe")
	backtestRunCmd.Flags().StringVar(&backtestRange, "range", "2y", "history range")
	backtestRunCmd.Flags().BoolVar(&backtestSave, "save", false, "persist reports to the database")
	backtestRunCmd.Flags().StringVar(&backtestHorizon, "horizon", "", "override horizon (weekly|monthly|both)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if backtestTicker == "" && !backtestAll {
		return fmt.Errorf("either --ticker or --all is required")
	}

	s, err := initStack()
	if err != nil {
		return err
	}

	strat, err := loadStrategy()
	if err != nil {
		return err
	}

	horizons := []string{strat.Data.Horizon}
	switch backtestHorizon {
	case "":
	case "both":
		horizons = []string{"weekly", "monthly"}
	case "weekly", "monthly":
		horizons = []string{backtestHorizon}
	default:
		return fmt.Errorf("invalid --horizon %q (want weekly, monthly or both)", backtestHorizon)
	}

	fetcher, db, err := s.newFetcher(backtestSave)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	tickers := []string{backtestTicker}
	if backtestAll {
		tickers = marketdata.DefaultUniverse
	}

	rawByTicker := make(map[string][]series.PricePoint, len(tickers))
	for _, ticker := range tickers {
		raw, err := fetcher.Fetch(cmd.Context(), ticker, backtestRange)
		if err != nil {
			fmt.Printf("  %-8s fetch failed: %v\n", ticker, err)
			continue
		}
		rawByTicker[ticker] = raw
	}

	succeeded, failed := 0, 0
	for _, horizon := range horizons {
		runStrat := *strat
		runStrat.Data.Horizon = horizon

		p, err := pipeline.New(runStrat, func() predictor.Predictor {
			return predictor.NewLogistic()
		}, s.log)
		if err != nil {
			return err
		}

		fmt.Printf("=== TrendLab Backtest (%s, %s horizon) ===\n\n",
			runStrat.Meta.StrategyID, horizon)

		batch := p.RunBatch(cmd.Context(), rawByTicker)
		succeeded += len(batch.Results)
		failed += len(batch.Errors)

		for _, result := range batch.Results {
			printReport(result.Report)
		}

		if len(batch.Errors) > 0 {
			fmt.Printf("\nFailed tickers:\n")
			names := make([]string, 0, len(batch.Errors))
			for ticker := range batch.Errors {
				names = append(names, ticker)
			}
			sort.Strings(names)
			for _, ticker := range names {
				fmt.Printf("  %-8s %v\n", ticker, batch.Errors[ticker])
			}
			fmt.Println()
		}

		if backtestSave && db != nil {
			if err := saveReports(cmd, db, batch); err != nil {
				return err
			}
		}
	}

	fmt.Printf("\nDone: %d succeeded, %d failed\n", succeeded, failed)
	return nil
}

func saveReports(cmd *cobra.Command, db *database.DB, batch *pipeline.BatchResult) error {
	repo := backtest.NewReportRepository(db.Pool)
	for _, result := range batch.Results {
		if err := repo.Save(cmd.Context(), result.Report); err != nil {
			return fmt.Errorf("save report %s: %w", result.Ticker, err)
		}
	}
	fmt.Printf("\nSaved %d reports\n", len(batch.Results))
	return nil
}

func printReport(r *backtest.Report) {
	fmt.Printf("--- %s ---\n", r.Ticker)
	fmt.Printf("Period:           %s ~ %s (%d sessions)\n",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), r.Sessions)
	fmt.Printf("Cumulative:       %+.2f%%\n", r.CumulativeReturn*100)
	fmt.Printf("Annualized:       %+.2f%%\n", r.AnnualizedReturn*100)
	fmt.Printf("Volatility:       %.2f%%\n", r.AnnualizedVolatility*100)
	fmt.Printf("Sharpe:           %.2f\n", r.SharpeRatio)
	fmt.Printf("Max drawdown:     %.2f%%\n", r.MaxDrawdown*100)
	fmt.Printf("Hit rate:         %.1f%%\n", r.HitRate*100)
	fmt.Printf("Benchmark:        %+.2f%% (excess %+.2f%%)\n",
		r.BenchmarkReturn*100, r.BenchmarkExcessReturn*100)
	if len(r.Warnings) > 0 {
		fmt.Printf("Warnings:         %s\n", strings.Join(r.Warnings, "; "))
	}
	fmt.Println()
}
