package features

import "math"

// Every indicator in this file is a pure function of the trailing window
// ending at index i (inclusive). None of them may read past i; that is the
// causality contract the builder tests enforce by truncation.
//
// Return convention: simple percentage change of the adjusted close,
// applied consistently everywhere.

// pctChange returns the simple return over w sessions ending at i:
// prices[i]/prices[i-w] - 1. Caller guarantees i >= w.
func pctChange(prices []float64, i, w int) float64 {
	return prices[i]/prices[i-w] - 1
}

// sma returns the simple moving average of the w sessions ending at i.
// Caller guarantees i >= w-1.
func sma(prices []float64, i, w int) float64 {
	sum := 0.0
	for j := i - w + 1; j <= i; j++ {
		sum += prices[j]
	}
	return sum / float64(w)
}

// rollingStd returns the sample standard deviation of the w one-session
// returns ending at i. Caller guarantees i >= w.
func rollingStd(prices []float64, i, w int) float64 {
	if w < 2 {
		return 0
	}

	rets := make([]float64, w)
	for j := 0; j < w; j++ {
		idx := i - w + 1 + j
		rets[j] = prices[idx]/prices[idx-1] - 1
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(w)

	variance := 0.0
	for _, r := range rets {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(w - 1)

	return math.Sqrt(variance)
}

// rsi returns the simple-average RSI of the w sessions ending at i.
// Caller guarantees i >= w.
//
// Sentinel policy (no NaN ever leaves this function): a window with gains
// and no losses is 100, a window with losses and no gains is 0, and a
// completely flat window is neutral 50.
func rsi(prices []float64, i, w int) float64 {
	var gains, losses float64
	for j := i - w + 1; j <= i; j++ {
		change := prices[j] - prices[j-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if gains == 0 && losses == 0 {
		return 50.0
	}
	if losses == 0 {
		return 100.0
	}
	if gains == 0 {
		return 0.0
	}

	rs := (gains / float64(w)) / (losses / float64(w))
	return 100 - (100 / (1 + rs))
}

// volumeZ returns the z-score of log volume at i against the trailing w
// sessions ending at i. log1p keeps zero-volume sessions defined. A window
// with zero dispersion resolves to 0 (no anomaly) rather than NaN.
// Caller guarantees i >= w-1.
func volumeZ(volumes []float64, i, w int) float64 {
	logs := make([]float64, w)
	for j := 0; j < w; j++ {
		logs[j] = math.Log1p(volumes[i-w+1+j])
	}

	mean := 0.0
	for _, v := range logs {
		mean += v
	}
	mean /= float64(w)

	variance := 0.0
	for _, v := range logs {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(w - 1)

	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0
	}
	return (math.Log1p(volumes[i]) - mean) / sd
}
