package strategy

import (
	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/internal/dataset"
	"github.com/wonny/trendlab/backend/internal/features"
)

// Config is the full research strategy configuration, loaded from YAML.
// It is the single configuration surface the pipeline consumes; the core
// components receive their sections as plain values and never read the
// environment or the filesystem themselves.
type Config struct {
	Meta     Meta            `yaml:"meta" json:"meta"`
	Data     Data            `yaml:"data" json:"data"`
	Features features.Config `yaml:"features" json:"features"`
	Split    SplitSection    `yaml:"split" json:"split"`
	Backtest Backtest        `yaml:"backtest" json:"backtest"`
}

// Meta identifies the strategy for reproducibility.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Data holds series-level thresholds.
type Data struct {
	// Horizon is "weekly" (5 sessions) or "monthly" (21 sessions).
	Horizon string `yaml:"horizon" json:"horizon"`

	// MinHistory is the minimum number of sessions a ticker needs before
	// it enters the pipeline at all.
	MinHistory int `yaml:"min_history" json:"min_history"`

	// MaxGapSessions is the staleness threshold for gap warnings.
	MaxGapSessions int `yaml:"max_gap_sessions" json:"max_gap_sessions"`
}

// SplitSection mirrors dataset.SplitConfig minus the horizon, which comes
// from the Data section.
type SplitSection struct {
	TrainFrac      float64 `yaml:"train_frac" json:"train_frac"`
	ValFrac        float64 `yaml:"val_frac" json:"val_frac"`
	MinSegmentRows int     `yaml:"min_segment_rows" json:"min_segment_rows"`
}

// Backtest holds simulation and evaluation parameters.
type Backtest struct {
	CostBps       float64 `yaml:"cost_bps" json:"cost_bps"`
	LongThreshold float64 `yaml:"long_threshold" json:"long_threshold"`
	RiskFreeRate  float64 `yaml:"risk_free_rate" json:"risk_free_rate"`

	// Benchmark selects the comparison series: "buy_and_hold" compares
	// against holding the same ticker over the test window, "none"
	// disables the comparison.
	Benchmark string `yaml:"benchmark" json:"benchmark"`
}

// Default returns the reference configuration: weekly horizon, one year of
// minimum history, 70/15/15 split, 10bp costs.
func Default() Config {
	return Config{
		Meta: Meta{
			StrategyID: "direction-baseline",
			Version:    "v1",
		},
		Data: Data{
			Horizon:        "weekly",
			MinHistory:     252,
			MaxGapSessions: 10,
		},
		Features: features.DefaultConfig(),
		Split: SplitSection{
			TrainFrac:      0.70,
			ValFrac:        0.15,
			MinSegmentRows: 30,
		},
		Backtest: Backtest{
			CostBps:       10,
			LongThreshold: 0.5,
			RiskFreeRate:  0,
			Benchmark:     "buy_and_hold",
		},
	}
}

// SplitConfig assembles the dataset splitter configuration for a given
// horizon length.
func (c Config) SplitConfig(horizonSessions int) dataset.SplitConfig {
	return dataset.SplitConfig{
		TrainFrac:      c.Split.TrainFrac,
		ValFrac:        c.Split.ValFrac,
		Horizon:        horizonSessions,
		MinSegmentRows: c.Split.MinSegmentRows,
	}
}

// BacktestConfig assembles the simulator configuration.
func (c Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		CostBps:       c.Backtest.CostBps,
		LongThreshold: c.Backtest.LongThreshold,
	}
}
