package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionsFromReturns(returns ...float64) []Position {
	base := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	positions := make([]Position, len(returns))
	equity := 1.0
	for i, r := range returns {
		equity *= 1 + r
		positions[i] = Position{
			Date:        base.AddDate(0, 0, i),
			Exposure:    1,
			GrossReturn: r,
			NetReturn:   r,
			Equity:      equity,
		}
	}
	return positions
}

func TestEvaluate_MaxDrawdown(t *testing.T) {
	// Equity curve [1.0, 1.2, 0.9, 1.1]: worst decline is from the 1.2
	// peak to 0.9, i.e. (0.9-1.2)/1.2 = -0.25.
	positions := positionsFromReturns(0, 0.2, 0.9/1.2-1, 1.1/0.9-1)

	report, err := Evaluate(positions, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, -0.25, report.MaxDrawdown, 1e-12)
}

func TestEvaluate_CumulativeReturn(t *testing.T) {
	report, err := Evaluate(positionsFromReturns(0.10, -0.10, 0.10), nil, 0)
	require.NoError(t, err)

	// (1.1 * 0.9 * 1.1) - 1
	assert.InDelta(t, 0.089, report.CumulativeReturn, 1e-12)
	assert.Equal(t, 3, report.Sessions)
}

func TestEvaluate_SharpeZeroVolatility(t *testing.T) {
	// Identical returns every session: zero variance must give Sharpe 0
	// with a warning, never NaN or an error.
	report, err := Evaluate(positionsFromReturns(0.01, 0.01, 0.01, 0.01), nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.AnnualizedVolatility)
	assert.Equal(t, 0.0, report.SharpeRatio)
	assert.False(t, math.IsNaN(report.SharpeRatio))
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "zero volatility")
}

func TestEvaluate_AnnualizationConventions(t *testing.T) {
	// One year of flat 0.1% daily gains.
	returns := make([]float64, SessionsPerYear)
	for i := range returns {
		returns[i] = 0.001
	}
	report, err := Evaluate(positionsFromReturns(returns...), nil, 0)
	require.NoError(t, err)

	wantCumulative := math.Pow(1.001, SessionsPerYear) - 1
	assert.InDelta(t, wantCumulative, report.CumulativeReturn, 1e-9)
	// Exactly one year, so annualized equals cumulative (geometric).
	assert.InDelta(t, wantCumulative, report.AnnualizedReturn, 1e-9)
}

func TestEvaluate_HitRate(t *testing.T) {
	positions := positionsFromReturns(0.01, -0.02, 0.03, -0.01)
	// Make the losing second session flat instead of exposed.
	positions[1].Exposure = 0

	report, err := Evaluate(positions, nil, 0)
	require.NoError(t, err)

	// Exposed sessions: 1st (+), 3rd (+), 4th (-): 2 of 3.
	assert.InDelta(t, 2.0/3.0, report.HitRate, 1e-12)
}

func TestEvaluate_BenchmarkExcess(t *testing.T) {
	positions := positionsFromReturns(0.02, 0.02)
	benchmark := []float64{0.01, 0.01}

	report, err := Evaluate(positions, benchmark, 0)
	require.NoError(t, err)

	wantStrategy := 1.02*1.02 - 1
	wantBench := 1.01*1.01 - 1
	assert.InDelta(t, wantBench, report.BenchmarkReturn, 1e-12)
	assert.InDelta(t, wantStrategy-wantBench, report.BenchmarkExcessReturn, 1e-12)
}

func TestEvaluate_BenchmarkLengthMismatch(t *testing.T) {
	_, err := Evaluate(positionsFromReturns(0.01, 0.01), []float64{0.01}, 0)
	assert.Error(t, err)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	_, err := Evaluate(nil, nil, 0)
	assert.Error(t, err)
}

func TestEvaluate_SkippedSessionsStayOnTimeAxis(t *testing.T) {
	positions := positionsFromReturns(0.05, -0.10, 0.02)
	skipped := Position{
		Date:    positions[2].Date.AddDate(0, 0, 1),
		Skipped: true,
		Equity:  positions[2].Equity,
	}
	positions = append(positions, skipped)

	report, err := Evaluate(positions, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Sessions, "skipped sessions count toward the axis")
	// Return sample excludes the skipped session.
	want := 1.05 * 0.90 * 1.02
	assert.InDelta(t, want-1, report.CumulativeReturn, 1e-12)
	assert.Equal(t, skipped.Date, report.EndDate)
}

func TestEvaluate_RiskFreeRateLowersSharpe(t *testing.T) {
	positions := positionsFromReturns(0.01, -0.005, 0.02, 0.003, -0.012, 0.007)

	withZero, err := Evaluate(positions, nil, 0)
	require.NoError(t, err)
	withRf, err := Evaluate(positions, nil, 0.10)
	require.NoError(t, err)

	assert.Less(t, withRf.SharpeRatio, withZero.SharpeRatio)
}
