package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/pkg/logger"
	"github.com/wonny/trendlab/backend/pkg/redis"
)

// cacheTTL is short on purpose: price history only changes once per
// session, but a stale tail costs a whole day of signals.
const cacheTTL = 4 * time.Hour

// Fetcher combines the brapi client with the cache and the price store.
// Tickers are fetched sequentially; the provider rate limit makes
// parallel fetching pointless.
type Fetcher struct {
	client *BrapiClient
	repo   *PriceRepository
	cache  *redis.Cache
	log    *logger.Logger
}

// NewFetcher creates a fetcher. repo and cache may be nil; fetching then
// skips persistence or caching respectively.
func NewFetcher(client *BrapiClient, repo *PriceRepository, cache *redis.Cache, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		repo:   repo,
		cache:  cache,
		log:    log.WithComponent("marketdata.fetcher"),
	}
}

// Fetch returns the daily history of one ticker, serving from cache when
// possible and persisting fresh fetches.
func (f *Fetcher) Fetch(ctx context.Context, ticker, dataRange string) ([]series.PricePoint, error) {
	cacheKey := fmt.Sprintf("prices:%s:%s", ticker, dataRange)

	if f.cache != nil {
		var cached []series.PricePoint
		found, err := f.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			f.log.WithError(err).WithField("ticker", ticker).Warn("Cache read failed")
		} else if found {
			return cached, nil
		}
	}

	points, err := f.client.FetchDaily(ctx, ticker, dataRange)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, cacheKey, points, cacheTTL); err != nil {
			f.log.WithError(err).WithField("ticker", ticker).Warn("Cache write failed")
		}
	}

	if f.repo != nil {
		if err := f.repo.UpsertPrices(ctx, ticker, points); err != nil {
			return nil, err
		}
	}

	return points, nil
}

// FetchUniverse fetches every ticker in the universe. A failed ticker is
// logged and recorded; the rest keep going.
func (f *Fetcher) FetchUniverse(ctx context.Context, tickers []string, dataRange string) (map[string][]series.PricePoint, map[string]error) {
	results := make(map[string][]series.PricePoint, len(tickers))
	errors := make(map[string]error)

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			errors[ticker] = err
			continue
		}

		points, err := f.Fetch(ctx, ticker, dataRange)
		if err != nil {
			f.log.WithError(err).WithField("ticker", ticker).Warn("Fetch failed")
			errors[ticker] = err
			continue
		}
		results[ticker] = points
	}

	f.log.WithFields(map[string]interface{}{
		"tickers":   len(tickers),
		"succeeded": len(results),
		"failed":    len(errors),
	}).Info("Universe fetch completed")

	return results, errors
}
