package series

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// NormalizeConfig controls validation thresholds.
type NormalizeConfig struct {
	// Horizon in sessions; a series with fewer than Horizon*3 usable
	// sessions cannot support an embargoed split and is rejected.
	Horizon int

	// MaxGapSessions is the largest tolerated gap between consecutive
	// sessions before a StaleDataWarning is emitted.
	MaxGapSessions int
}

// DefaultNormalizeConfig returns the standard thresholds.
func DefaultNormalizeConfig(horizon int) NormalizeConfig {
	return NormalizeConfig{
		Horizon:        horizon,
		MaxGapSessions: 10,
	}
}

// Normalize canonicalizes raw per-ticker records into a PriceSeries:
// sorted by date ascending, deduplicated by date (last record received
// wins), every field validated. Gaps between trading days are tolerated;
// gaps longer than MaxGapSessions are reported as warnings alongside the
// result.
//
// A missing adjusted close (zero) falls back to the raw close; a
// non-positive adjusted close after fallback fails the whole series.
func Normalize(ticker string, raw []PricePoint, cfg NormalizeConfig) (*PriceSeries, []StaleDataWarning, error) {
	if cfg.Horizon <= 0 {
		return nil, nil, fmt.Errorf("normalize %s: horizon must be > 0, got %d", ticker, cfg.Horizon)
	}
	if len(raw) == 0 {
		return nil, nil, &DataIntegrityError{Ticker: ticker, Reason: "empty series"}
	}

	// Stable sort keeps input order among equal dates, so "latest record
	// received" survives the dedupe below.
	points := make([]PricePoint, len(raw))
	copy(points, raw)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	// Deduplicate by date, last-write-wins.
	deduped := points[:0]
	for _, p := range points {
		if len(deduped) > 0 && sameDay(deduped[len(deduped)-1].Date, p.Date) {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	for i := range deduped {
		if err := validatePoint(ticker, &deduped[i]); err != nil {
			return nil, nil, err
		}
		if i > 0 && !deduped[i-1].Date.Before(deduped[i].Date) {
			return nil, nil, &DataIntegrityError{
				Ticker: ticker,
				Reason: fmt.Sprintf("dates not strictly increasing at %s", deduped[i].Date.Format("2006-01-02")),
			}
		}
	}

	minSessions := cfg.Horizon * 3
	if len(deduped) < minSessions {
		return nil, nil, &DataIntegrityError{
			Ticker: ticker,
			Reason: fmt.Sprintf("insufficient history: %d sessions, need at least %d", len(deduped), minSessions),
		}
	}

	var warnings []StaleDataWarning
	for i := 1; i < len(deduped); i++ {
		missed := missedSessions(deduped[i-1].Date, deduped[i].Date)
		if missed > cfg.MaxGapSessions {
			warnings = append(warnings, StaleDataWarning{
				Ticker:   ticker,
				From:     deduped[i-1].Date,
				To:       deduped[i].Date,
				Sessions: missed,
			})
		}
	}

	out := make([]PricePoint, len(deduped))
	copy(out, deduped)

	return &PriceSeries{Ticker: ticker, Points: out}, warnings, nil
}

// validatePoint checks one session in place, applying the adjusted-close
// fallback.
func validatePoint(ticker string, p *PricePoint) error {
	fields := map[string]float64{
		"open": p.Open, "high": p.High, "low": p.Low,
		"close": p.Close, "adj_close": p.AdjClose, "volume": p.Volume,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DataIntegrityError{
				Ticker: ticker,
				Reason: fmt.Sprintf("%s is not finite at %s", name, p.Date.Format("2006-01-02")),
			}
		}
	}

	if p.Volume < 0 {
		return &DataIntegrityError{
			Ticker: ticker,
			Reason: fmt.Sprintf("negative volume at %s", p.Date.Format("2006-01-02")),
		}
	}

	// Every price must be strictly positive: the intraday features divide
	// by open and low, so a zero here becomes an infinity downstream.
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"open", p.Open}, {"high", p.High}, {"low", p.Low}, {"close", p.Close},
	} {
		if f.v <= 0 {
			return &DataIntegrityError{
				Ticker: ticker,
				Reason: fmt.Sprintf("non-positive %s at %s", f.name, p.Date.Format("2006-01-02")),
			}
		}
	}

	// Providers often omit the adjusted close; the raw close is the
	// documented fallback.
	if p.AdjClose == 0 {
		p.AdjClose = p.Close
	}
	if p.AdjClose <= 0 {
		return &DataIntegrityError{
			Ticker: ticker,
			Reason: fmt.Sprintf("non-positive adjusted close at %s", p.Date.Format("2006-01-02")),
		}
	}

	return nil
}

// missedSessions estimates the number of trading sessions skipped between
// two dates by counting the weekdays strictly between them. Holidays make
// this an overestimate of at most a couple of sessions, which is fine for a
// staleness heuristic.
func missedSessions(from, to time.Time) int {
	missed := 0
	for d := from.AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			missed++
		}
	}
	return missed
}

// sameDay reports whether two timestamps fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
