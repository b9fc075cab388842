package features

import (
	"fmt"
	"time"

	"github.com/wonny/trendlab/backend/internal/series"
)

// Row holds the feature vector of one session. Values are keyed by the
// names in Config.Names(); every value is computed strictly from sessions
// at or before Date.
type Row struct {
	Date   time.Time
	Ticker string
	Values map[string]float64
}

// Builder derives the configured indicator vocabulary from a normalized
// price series.
type Builder struct {
	cfg Config
}

// NewBuilder creates a feature builder. The config is validated once here
// so Build never fails on configuration.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("feature config: %w", err)
	}
	return &Builder{cfg: cfg}, nil
}

// Names returns the feature vocabulary in vectorization order.
func (b *Builder) Names() []string {
	return b.cfg.Names()
}

// Build computes one Row per session starting at the warm-up index
// (Config.MaxLookback). Earlier sessions are dropped, not zero-filled:
// training on placeholder values silently biases the model.
func (b *Builder) Build(s *series.PriceSeries) []Row {
	adj := s.AdjCloses()
	volumes := make([]float64, s.Len())
	for i, p := range s.Points {
		volumes[i] = p.Volume
	}

	warmup := b.cfg.MaxLookback()
	if s.Len() <= warmup {
		return nil
	}

	rows := make([]Row, 0, s.Len()-warmup)
	for i := warmup; i < s.Len(); i++ {
		p := s.At(i)
		values := make(map[string]float64, len(b.cfg.Names()))

		values["ret_1"] = pctChange(adj, i, 1)

		for _, w := range b.cfg.SMAWindows {
			values[fmt.Sprintf("price_to_sma_%d", w)] = adj[i]/sma(adj, i, w) - 1
		}
		for _, w := range b.cfg.MomentumWindows {
			values[fmt.Sprintf("mom_%d", w)] = pctChange(adj, i, w)
		}
		for _, w := range b.cfg.VolatilityWindows {
			values[fmt.Sprintf("vol_%d", w)] = rollingStd(adj, i, w)
		}

		values[fmt.Sprintf("rsi_%d", b.cfg.RSIWindow)] = rsi(adj, i, b.cfg.RSIWindow)
		values[fmt.Sprintf("volume_z_%d", b.cfg.VolumeZWindow)] = volumeZ(volumes, i, b.cfg.VolumeZWindow)

		if b.cfg.IncludeIntraday {
			values["hl_range"] = p.High/p.Low - 1
			values["oc_change"] = p.Close/p.Open - 1
		}

		rows = append(rows, Row{
			Date:   p.Date,
			Ticker: s.Ticker,
			Values: values,
		})
	}

	return rows
}
