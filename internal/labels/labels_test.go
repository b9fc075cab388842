package labels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendlab/backend/internal/series"
)

func seriesFrom(adjCloses []float64) *series.PriceSeries {
	points := make([]series.PricePoint, len(adjCloses))
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for i, c := range adjCloses {
		points[i] = series.PricePoint{
			Date:     base.AddDate(0, 0, i),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			AdjClose: c,
			Volume:   1,
		}
	}
	return &series.PriceSeries{Ticker: "TEST3", Points: points}
}

func TestBuild_DirectionalRule(t *testing.T) {
	// adjusted_close = [100, 100, 105, 95, 100], horizon 2:
	// index 0: 100 -> 105, up, label 1
	// index 1: 100 -> 95, down, label 0
	// index 2: 105 -> 100, down, label 0
	// indices 3-4: no full forward window, absent from output
	s := seriesFrom([]float64{100, 100, 105, 95, 100})

	rows := Build(s, Horizon(2))
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Label)
	assert.InDelta(t, 0.05, rows[0].FwdReturn, 1e-12)
	assert.Equal(t, 0, rows[1].Label)
	assert.InDelta(t, -0.05, rows[1].FwdReturn, 1e-12)
	// index 2: 105 -> 100, down
	assert.Equal(t, 0, rows[2].Label)
}

func TestBuild_TieIsZero(t *testing.T) {
	// Up must be a strict positive forward move; a tie maps to 0.
	s := seriesFrom([]float64{100, 101, 100})
	rows := Build(s, Horizon(2))
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Label)
	assert.Equal(t, 0.0, rows[0].FwdReturn)
}

func TestBuild_TooShort(t *testing.T) {
	s := seriesFrom([]float64{100, 101})
	assert.Empty(t, Build(s, Weekly))
}

func TestBuild_AlignsWithSeriesDates(t *testing.T) {
	s := seriesFrom([]float64{100, 101, 102, 103, 104, 105, 106, 107})
	rows := Build(s, Weekly)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, s.At(i).Date, row.Date)
		assert.Equal(t, Weekly, row.Horizon)
		assert.Equal(t, 1, row.Label, "monotonically rising series labels 1 everywhere")
	}
}

func TestParseHorizon(t *testing.T) {
	h, err := ParseHorizon("weekly")
	require.NoError(t, err)
	assert.Equal(t, 5, h.Sessions())

	h, err = ParseHorizon("monthly")
	require.NoError(t, err)
	assert.Equal(t, 21, h.Sessions())

	_, err = ParseHorizon("quarterly")
	assert.Error(t, err)
}
