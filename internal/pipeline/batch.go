package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/trendlab/backend/internal/series"
)

// defaultWorkers bounds batch parallelism. Ticker runs are independent
// and CPU-bound, so a small fixed pool is enough.
const defaultWorkers = 8

// BatchResult collects per-ticker outcomes. A failed ticker never aborts
// the batch; its error is recorded and the rest keep running.
type BatchResult struct {
	Results []*Result        `json:"results"`
	Errors  map[string]error `json:"-"`
}

// RunBatch runs the pipeline for every ticker in the input map. Results
// come back sorted by ticker for stable output.
func (p *Pipeline) RunBatch(ctx context.Context, rawByTicker map[string][]series.PricePoint) *BatchResult {
	batch := &BatchResult{
		Errors: make(map[string]error),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, defaultWorkers)
	)

	for ticker, raw := range rawByTicker {
		wg.Add(1)
		go func(ticker string, raw []series.PricePoint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := p.Run(ctx, ticker, raw)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.WithError(err).WithField("ticker", ticker).Warn("Ticker run failed")
				batch.Errors[ticker] = err
				return
			}
			batch.Results = append(batch.Results, result)
		}(ticker, raw)
	}
	wg.Wait()

	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].Ticker < batch.Results[j].Ticker
	})

	p.log.WithFields(map[string]interface{}{
		"tickers":   len(rawByTicker),
		"succeeded": len(batch.Results),
		"failed":    len(batch.Errors),
	}).Info("Batch completed")

	return batch
}
