package labels

import (
	"fmt"
	"time"

	"github.com/wonny/trendlab/backend/internal/series"
)

// Horizon is the number of sessions ahead the directional label looks.
type Horizon int

const (
	// Weekly is roughly one trading week.
	Weekly Horizon = 5
	// Monthly is roughly one trading month.
	Monthly Horizon = 21
)

// ParseHorizon maps the configuration names to session counts.
func ParseHorizon(name string) (Horizon, error) {
	switch name {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("unknown horizon %q (want weekly or monthly)", name)
	}
}

// Sessions returns the horizon length in sessions.
func (h Horizon) Sessions() int {
	return int(h)
}

// Row is the supervised target of one session: 1 when the adjusted close
// `horizon` sessions ahead is strictly greater than today's, 0 for ties and
// declines. FwdReturn keeps the underlying simple return for diagnostics.
type Row struct {
	Date      time.Time
	Ticker    string
	Horizon   Horizon
	Label     int
	FwdReturn float64
}

// Build computes one Row per session that has a full forward window. The
// final `horizon` sessions have no defined label and are dropped, never
// imputed. An imputed label is future information by construction.
func Build(s *series.PriceSeries, horizon Horizon) []Row {
	h := horizon.Sessions()
	if s.Len() <= h {
		return nil
	}

	adj := s.AdjCloses()
	rows := make([]Row, 0, s.Len()-h)
	for i := 0; i+h < s.Len(); i++ {
		label := 0
		if adj[i+h] > adj[i] {
			label = 1
		}
		rows = append(rows, Row{
			Date:      s.At(i).Date,
			Ticker:    s.Ticker,
			Horizon:   horizon,
			Label:     label,
			FwdReturn: adj[i+h]/adj[i] - 1,
		})
	}
	return rows
}
