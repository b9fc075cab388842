package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/trendlab/backend/internal/dataset"
	"github.com/wonny/trendlab/backend/internal/features"
	"github.com/wonny/trendlab/backend/internal/labels"
	"github.com/wonny/trendlab/backend/internal/series"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect feature/label datasets",
}

var datasetSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Show the temporal split of one ticker",
	Long: `Builds the joined feature/label dataset for a ticker and prints the
train/validation/test segment sizes after embargo removal.

Example:
  go run ./cmd/trendlab dataset split --ticker PETR4
  go run ./cmd/trendlab dataset split --ticker VALE3 --range 5y`,
	RunE: runDatasetSplit,
}

var (
	datasetTicker string
	datasetRange  string
)

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetSplitCmd)

	datasetSplitCmd.Flags().StringVar(&datasetTicker, "ticker", "", "ticker symbol (required)")
	datasetSplitCmd.Flags().StringVar(&datasetRange, "range", "2y", "history range")
	datasetSplitCmd.MarkFlagRequired("ticker")
}

func runDatasetSplit(cmd *cobra.Command, args []string) error {
	s, err := initStack()
	if err != nil {
		return err
	}

	strat, err := loadStrategy()
	if err != nil {
		return err
	}

	horizon, err := labels.ParseHorizon(strat.Data.Horizon)
	if err != nil {
		return err
	}

	fetcher, db, err := s.newFetcher(false)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	raw, err := fetcher.Fetch(cmd.Context(), datasetTicker, datasetRange)
	if err != nil {
		return err
	}

	ps, warnings, err := series.Normalize(datasetTicker, raw, series.NormalizeConfig{
		Horizon:        horizon.Sessions(),
		MaxGapSessions: strat.Data.MaxGapSessions,
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w.String())
	}

	builder, err := features.NewBuilder(strat.Features)
	if err != nil {
		return err
	}

	joined, err := dataset.Join(builder.Build(ps), labels.Build(ps, horizon), builder.Names())
	if err != nil {
		return err
	}

	split, err := dataset.TemporalSplit(joined, builder.Names(), strat.SplitConfig(horizon.Sessions()))
	if err != nil {
		return err
	}

	stats := split.Stats()
	fmt.Printf("\n=== Dataset Split: %s (%s horizon) ===\n\n", datasetTicker, strat.Data.Horizon)
	fmt.Printf("Sessions:   %d\n", ps.Len())
	fmt.Printf("Features:   %d\n", len(builder.Names()))
	fmt.Printf("Joined:     %d rows\n\n", stats.Total)
	fmt.Printf("Train:      %d\n", stats.Train)
	fmt.Printf("Validation: %d\n", stats.Val)
	fmt.Printf("Test:       %d\n", stats.Test)
	fmt.Printf("Embargoed:  %d\n", stats.Embargoed)
	return nil
}
