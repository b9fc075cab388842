package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/trendlab/backend/internal/marketdata"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [tickers...]",
	Short: "Fetch daily OHLCV history",
	Long: `Fetches daily price history from brapi.dev and stores it.

Without arguments the whole default universe is fetched. A failed ticker
is reported and skipped; the rest keep going.

Example:
  go run ./cmd/trendlab fetch
  go run ./cmd/trendlab fetch PETR4 VALE3 --range 2y
  go run ./cmd/trendlab fetch --no-store`,
	RunE: runFetch,
}

var (
	fetchRange   string
	fetchNoStore bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchRange, "range", "2y", "history range (1y|2y|5y|max)")
	fetchCmd.Flags().BoolVar(&fetchNoStore, "no-store", false, "skip database persistence")
}

func runFetch(cmd *cobra.Command, args []string) error {
	s, err := initStack()
	if err != nil {
		return err
	}

	fetcher, db, err := s.newFetcher(!fetchNoStore)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	tickers := args
	if len(tickers) == 0 {
		tickers = marketdata.DefaultUniverse
	}

	fmt.Printf("Fetching %d tickers (range %s)...\n\n", len(tickers), fetchRange)

	results, errs := fetcher.FetchUniverse(cmd.Context(), tickers, fetchRange)

	for _, ticker := range tickers {
		if points, ok := results[ticker]; ok {
			fmt.Printf("  %-8s %5d sessions\n", ticker, len(points))
		}
	}

	if len(errs) > 0 {
		fmt.Printf("\nFailed tickers:\n")
		failed := make([]string, 0, len(errs))
		for ticker := range errs {
			failed = append(failed, ticker)
		}
		sort.Strings(failed)
		for _, ticker := range failed {
			fmt.Printf("  %-8s %v\n", ticker, errs[ticker])
		}
	}

	fmt.Printf("\nDone: %d succeeded, %d failed\n", len(results), len(errs))
	return nil
}
