package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendlab/backend/internal/series"
)

func sessionDate(i int) time.Time {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n < i; n++ {
		d = d.AddDate(0, 0, 1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// syntheticSeries builds a deterministic wavy series long enough for every
// default window.
func syntheticSeries(n int) *series.PriceSeries {
	points := make([]series.PricePoint, n)
	for i := 0; i < n; i++ {
		price := 100.0 + 10.0*math.Sin(float64(i)/7.0) + 0.05*float64(i)
		points[i] = series.PricePoint{
			Date:     sessionDate(i),
			Open:     price * 0.995,
			High:     price * 1.01,
			Low:      price * 0.99,
			Close:    price,
			AdjClose: price,
			Volume:   1000 + 50*float64(i%13),
		}
	}
	return &series.PriceSeries{Ticker: "TEST3", Points: points}
}

func mustBuilder(t *testing.T, cfg Config) *Builder {
	t.Helper()
	b, err := NewBuilder(cfg)
	require.NoError(t, err)
	return b
}

func TestBuild_DropsWarmupRows(t *testing.T) {
	s := syntheticSeries(100)
	b := mustBuilder(t, DefaultConfig())

	rows := b.Build(s)
	warmup := DefaultConfig().MaxLookback()

	require.Len(t, rows, s.Len()-warmup)
	assert.Equal(t, s.At(warmup).Date, rows[0].Date,
		"first row must be the first session with full lookback history")
}

func TestBuild_VocabularyComplete(t *testing.T) {
	s := syntheticSeries(100)
	b := mustBuilder(t, DefaultConfig())

	rows := b.Build(s)
	require.NotEmpty(t, rows)

	names := b.Names()
	for _, row := range rows {
		require.Len(t, row.Values, len(names))
		for _, name := range names {
			v, ok := row.Values[name]
			require.True(t, ok, "missing feature %s", name)
			assert.False(t, math.IsNaN(v), "feature %s is NaN at %s", name, row.Date)
			assert.False(t, math.IsInf(v, 0), "feature %s is infinite at %s", name, row.Date)
		}
	}
}

// TestBuild_Causality is the core correctness property: a feature row at
// date d must be identical when recomputed from the series truncated at any
// point at or after d. Any difference means a future session leaked in.
func TestBuild_Causality(t *testing.T) {
	s := syntheticSeries(120)
	b := mustBuilder(t, DefaultConfig())

	full := b.Build(s)
	require.NotEmpty(t, full)

	for _, cut := range []int{80, 95, 119} {
		truncated := &series.PriceSeries{Ticker: s.Ticker, Points: s.Points[:cut+1]}
		partial := b.Build(truncated)

		for i, row := range partial {
			require.Equal(t, full[i].Date, row.Date)
			for name, v := range row.Values {
				assert.Equal(t, full[i].Values[name], v,
					"feature %s at %s changed when the series was truncated at index %d",
					name, row.Date, cut)
			}
		}
	}
}

func TestBuild_TooShortSeries(t *testing.T) {
	s := syntheticSeries(DefaultConfig().MaxLookback()) // one short of the first row
	b := mustBuilder(t, DefaultConfig())
	assert.Empty(t, b.Build(s))
}

func TestRSI_Sentinels(t *testing.T) {
	up := []float64{100, 101, 102, 103, 104, 105}
	down := []float64{105, 104, 103, 102, 101, 100}
	flat := []float64{100, 100, 100, 100, 100, 100}

	assert.Equal(t, 100.0, rsi(up, 5, 5), "all gains pins RSI at 100")
	assert.Equal(t, 0.0, rsi(down, 5, 5), "all losses pins RSI at 0")
	assert.Equal(t, 50.0, rsi(flat, 5, 5), "a flat window is neutral 50")
}

func TestRSI_MixedWindow(t *testing.T) {
	// Gains of 4 and losses of 1 over the window: RS = 4, RSI = 80.
	prices := []float64{100, 102, 101, 103}
	assert.InDelta(t, 80.0, rsi(prices, 3, 3), 1e-9)
}

func TestVolumeZ_ZeroDispersion(t *testing.T) {
	volumes := []float64{500, 500, 500, 500, 500}
	assert.Equal(t, 0.0, volumeZ(volumes, 4, 5),
		"constant volume resolves to 0, not NaN")
}

func TestRollingStd_FlatPrices(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 100}
	assert.Equal(t, 0.0, rollingStd(prices, 5, 5))
}

func TestPctChange(t *testing.T) {
	prices := []float64{100, 110, 121}
	assert.InDelta(t, 0.10, pctChange(prices, 1, 1), 1e-12)
	assert.InDelta(t, 0.21, pctChange(prices, 2, 2), 1e-12)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RSIWindow = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MomentumWindows = []int{0}
	assert.Error(t, cfg.Validate())

	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_MaxLookback(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 63, cfg.MaxLookback())

	cfg.MomentumWindows = append(cfg.MomentumWindows, 126)
	assert.Equal(t, 126, cfg.MaxLookback())
}
