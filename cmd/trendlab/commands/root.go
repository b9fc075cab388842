package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendlab",
	Short: "TrendLab - directional stock prediction and backtesting",
	Long: `TrendLab research backend.

Fetches daily OHLCV history for the Ibovespa universe, builds leakage-free
feature/label datasets, trains a directional baseline model and walk-forward
backtests it with transaction costs.

Examples:
  go run ./cmd/trendlab fetch
  go run ./cmd/trendlab dataset split --ticker PETR4
  go run ./cmd/trendlab backtest run --ticker PETR4
  go run ./cmd/trendlab serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default: built-in baseline)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
