package pipeline

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendlab/backend/internal/dataset"
	"github.com/wonny/trendlab/backend/internal/predictor"
	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/internal/strategy"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// syntheticSeries generates n weekday sessions of a gently trending price
// with seeded noise, so runs are reproducible.
func syntheticSeries(n int, seed int64) []series.PricePoint {
	rng := rand.New(rand.NewSource(seed))
	points := make([]series.PricePoint, 0, n)
	date := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC) // a Monday
	price := 100.0

	for len(points) < n {
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			price *= 1 + 0.0004 + 0.01*rng.NormFloat64()
			points = append(points, series.PricePoint{
				Date:     date,
				Open:     price * 0.995,
				High:     price * 1.01,
				Low:      price * 0.99,
				Close:    price,
				AdjClose: price,
				Volume:   1_000_000 + float64(rng.Intn(500_000)),
			})
		}
		date = date.AddDate(0, 0, 1)
	}
	return points
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(strategy.Default(), func() predictor.Predictor {
		return predictor.NewLogistic()
	}, logger.NewNop())
	require.NoError(t, err)
	return p
}

func TestPipeline_EndToEnd(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Run(context.Background(), "PETR4", syntheticSeries(420, 1))
	require.NoError(t, err)

	assert.Equal(t, "PETR4", result.Ticker)
	require.NotNil(t, result.Report)
	assert.Equal(t, "PETR4", result.Report.Ticker)
	assert.Equal(t, 5, result.Report.Horizon)
	assert.NotEmpty(t, result.ConfigHash)

	stats := result.SplitStats
	assert.Equal(t, stats.Total, stats.Train+stats.Val+stats.Test+stats.Embargoed)
	assert.GreaterOrEqual(t, stats.Train, 30)
	assert.GreaterOrEqual(t, stats.Test, 30)

	assert.Equal(t, stats.Test, result.Report.Sessions)
	assert.False(t, math.IsNaN(result.Report.SharpeRatio))
	assert.False(t, math.IsNaN(result.Report.CumulativeReturn))
	assert.LessOrEqual(t, result.Report.MaxDrawdown, 0.0)
}

func TestPipeline_InsufficientHistory(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), "VALE3", syntheticSeries(100, 2))
	require.Error(t, err)

	var insufficient *dataset.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "history", insufficient.Segment)
	assert.Equal(t, 252, insufficient.MinRows)
}

func TestPipeline_DataIntegrityFailure(t *testing.T) {
	p := newTestPipeline(t)

	raw := syntheticSeries(300, 3)
	raw[150].Close = -5

	_, err := p.Run(context.Background(), "ITUB4", raw)
	require.Error(t, err)

	var integrity *series.DataIntegrityError
	assert.ErrorAs(t, err, &integrity)
}

func TestPipeline_Deterministic(t *testing.T) {
	p := newTestPipeline(t)
	raw := syntheticSeries(420, 4)

	first, err := p.Run(context.Background(), "BBAS3", raw)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "BBAS3", raw)
	require.NoError(t, err)

	assert.Equal(t, first.Report.CumulativeReturn, second.Report.CumulativeReturn)
	assert.Equal(t, first.Report.SharpeRatio, second.Report.SharpeRatio)
	assert.Equal(t, first.SplitStats, second.SplitStats)
}

func TestPipeline_BenchmarkDisabled(t *testing.T) {
	cfg := strategy.Default()
	cfg.Backtest.Benchmark = "none"
	p, err := New(cfg, func() predictor.Predictor {
		return predictor.NewLogistic()
	}, logger.NewNop())
	require.NoError(t, err)

	result, err := p.Run(context.Background(), "WEGE3", syntheticSeries(420, 5))
	require.NoError(t, err)

	assert.Zero(t, result.Report.BenchmarkReturn)
	assert.Zero(t, result.Report.BenchmarkExcessReturn)
}

func TestRunBatch_FailedTickerDoesNotAbortOthers(t *testing.T) {
	p := newTestPipeline(t)

	rawByTicker := map[string][]series.PricePoint{
		"PETR4": syntheticSeries(420, 10),
		"VALE3": syntheticSeries(420, 11),
		"BAD11": syntheticSeries(50, 12), // too short
	}

	batch := p.RunBatch(context.Background(), rawByTicker)

	require.Len(t, batch.Results, 2)
	assert.Equal(t, "PETR4", batch.Results[0].Ticker)
	assert.Equal(t, "VALE3", batch.Results[1].Ticker)

	require.Len(t, batch.Errors, 1)
	assert.Error(t, batch.Errors["BAD11"])
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := strategy.Default()
	cfg.Data.Horizon = "hourly"

	_, err := New(cfg, func() predictor.Predictor {
		return predictor.NewLogistic()
	}, logger.NewNop())
	assert.Error(t, err)
}

func TestNew_RequiresFactory(t *testing.T) {
	_, err := New(strategy.Default(), nil, logger.NewNop())
	assert.Error(t, err)
}
