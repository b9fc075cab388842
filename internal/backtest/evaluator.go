package backtest

import (
	"fmt"
	"math"
	"time"
)

// SessionsPerYear is the annualization constant for daily equity series.
const SessionsPerYear = 252

// Report is the immutable summary of one backtest run.
//
// Conventions, fixed and pinned by tests: cumulative return is the product
// of (1 + per-session net return) - 1; annualized return is geometric;
// volatility is the sample standard deviation of per-session net returns
// scaled by sqrt(252); max drawdown is the worst peak-to-trough decline of
// the equity curve as a negative fraction; Sharpe is 0 (not NaN) when
// volatility is exactly 0, surfaced in Warnings.
type Report struct {
	Ticker    string    `json:"ticker"`
	Horizon   int       `json:"horizon"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Sessions  int       `json:"sessions"`

	CumulativeReturn     float64 `json:"cumulative_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	HitRate              float64 `json:"hit_rate"`

	BenchmarkReturn       float64 `json:"benchmark_return"`
	BenchmarkExcessReturn float64 `json:"benchmark_excess_return"`

	Warnings []string `json:"warnings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Evaluate reduces a position sequence to summary metrics. benchmark is an
// optional per-session return series aligned to positions (same length);
// pass nil for no benchmark. Malformed input fails fast: this is pure
// computation over an already-validated sequence, partial metrics are
// worse than no metrics.
func Evaluate(positions []Position, benchmark []float64, riskFreeRate float64) (*Report, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("evaluate: empty position sequence")
	}
	if benchmark != nil && len(benchmark) != len(positions) {
		return nil, fmt.Errorf("evaluate: benchmark length %d does not match %d positions",
			len(benchmark), len(positions))
	}

	// Ticker and Horizon are stamped by the pipeline; positions carry
	// neither.
	report := &Report{
		StartDate: positions[0].Date,
		EndDate:   positions[len(positions)-1].Date,
		Sessions:  len(positions),
		CreatedAt: time.Now().UTC(),
	}

	// Per-session net returns, skipped sessions excluded from the return
	// sample but kept on the equity time axis below.
	var returns []float64
	for _, p := range positions {
		if !p.Skipped {
			returns = append(returns, p.NetReturn)
		}
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("evaluate: every session skipped, nothing to measure")
	}

	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}
	report.CumulativeReturn = cumulative - 1

	years := float64(len(returns)) / SessionsPerYear
	if cumulative > 0 {
		report.AnnualizedReturn = math.Pow(cumulative, 1/years) - 1
	} else {
		// Total wipeout; the geometric form is undefined.
		report.AnnualizedReturn = -1
		report.Warnings = append(report.Warnings, "equity wiped out, annualized return clamped to -100%")
	}

	report.AnnualizedVolatility = sampleStd(returns) * math.Sqrt(SessionsPerYear)

	if report.AnnualizedVolatility == 0 {
		report.SharpeRatio = 0
		report.Warnings = append(report.Warnings, "zero volatility, sharpe ratio defined as 0")
	} else {
		report.SharpeRatio = (report.AnnualizedReturn - riskFreeRate) / report.AnnualizedVolatility
	}

	report.MaxDrawdown = maxDrawdown(positions)
	report.HitRate = hitRate(positions)

	if benchmark != nil {
		benchCumulative := 1.0
		for i, r := range benchmark {
			if positions[i].Skipped {
				continue
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, fmt.Errorf("evaluate: benchmark return not finite at %s",
					positions[i].Date.Format("2006-01-02"))
			}
			benchCumulative *= 1 + r
		}
		report.BenchmarkReturn = benchCumulative - 1
		report.BenchmarkExcessReturn = report.CumulativeReturn - report.BenchmarkReturn
	}

	return report, nil
}

// maxDrawdown walks the full equity curve, skipped sessions included, so
// drawdown durations stay on the real time axis.
func maxDrawdown(positions []Position) float64 {
	peak := 1.0 // equity starts at 1.0 before the first session
	worst := 0.0

	for _, p := range positions {
		if p.Equity > peak {
			peak = p.Equity
		}
		dd := (p.Equity - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// hitRate is the fraction of exposed, non-skipped sessions whose realized
// gross return was positive.
func hitRate(positions []Position) float64 {
	exposed, hits := 0, 0
	for _, p := range positions {
		if p.Skipped || p.Exposure == 0 {
			continue
		}
		exposed++
		if p.GrossReturn > 0 {
			hits++
		}
	}
	if exposed == 0 {
		return 0
	}
	return float64(hits) / float64(exposed)
}

// sampleStd is the sample (n-1) standard deviation.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		diff := x - mean
		variance += diff * diff
	}
	variance /= float64(len(xs) - 1)

	return math.Sqrt(variance)
}
