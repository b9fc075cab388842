package series

import "time"

// PricePoint is a single trading session for one ticker.
// AdjClose absorbs splits and dividends and is the price used for every
// return calculation downstream.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// PriceSeries is the normalized, strictly date-ordered price history of one
// ticker. It is the single source of truth for a pipeline run: built once by
// Normalize and never mutated afterwards. Every downstream component reads
// it by reference.
type PriceSeries struct {
	Ticker string
	Points []PricePoint
}

// Len returns the number of sessions.
func (s *PriceSeries) Len() int {
	return len(s.Points)
}

// At returns the point at session index i.
func (s *PriceSeries) At(i int) PricePoint {
	return s.Points[i]
}

// AdjCloses returns the adjusted close column.
func (s *PriceSeries) AdjCloses() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.AdjClose
	}
	return out
}

// IndexOf returns the session index of a date, or -1 if the date is not a
// session in the series. Only the calendar day is compared.
func (s *PriceSeries) IndexOf(date time.Time) int {
	y, m, d := date.Date()
	for i, p := range s.Points {
		py, pm, pd := p.Date.Date()
		if py == y && pm == m && pd == d {
			return i
		}
	}
	return -1
}
