package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// CollectPrices fetches the daily history of the whole universe and
// persists it. Scheduled after the B3 close.
type CollectPrices struct {
	fetcher  *marketdata.Fetcher
	tickers  []string
	schedule string
	log      *logger.Logger
}

// NewCollectPrices creates the collection job. An empty schedule falls
// back to 19:00 UTC on weekdays, after the Sao Paulo close.
func NewCollectPrices(fetcher *marketdata.Fetcher, tickers []string, schedule string, log *logger.Logger) *CollectPrices {
	if schedule == "" {
		schedule = "0 0 19 * * MON-FRI"
	}
	if len(tickers) == 0 {
		tickers = marketdata.DefaultUniverse
	}
	return &CollectPrices{
		fetcher:  fetcher,
		tickers:  tickers,
		schedule: schedule,
		log:      log.WithComponent("jobs.collect_prices"),
	}
}

// Name implements scheduler.Job.
func (j *CollectPrices) Name() string { return "collect_prices" }

// Schedule implements scheduler.Job.
func (j *CollectPrices) Schedule() string { return j.schedule }

// Run fetches every ticker. Partial failure is reported as an error so
// the run history shows it, but every ticker gets attempted.
func (j *CollectPrices) Run(ctx context.Context) error {
	results, errs := j.fetcher.FetchUniverse(ctx, j.tickers, "1y")

	if len(errs) > 0 {
		return fmt.Errorf("collected %d/%d tickers, %d failed",
			len(results), len(j.tickers), len(errs))
	}

	j.log.WithField("tickers", len(results)).Info("Price collection completed")
	return nil
}
