package strategy

import (
	"fmt"

	"github.com/wonny/trendlab/backend/internal/labels"
)

// ValidationError is a config constraint violation. Fatal: a run with a
// half-valid strategy config is not worth having.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	horizon, err := labels.ParseHorizon(cfg.Data.Horizon)
	if err != nil {
		return ValidationError{"data.horizon", err.Error()}
	}
	if cfg.Data.MinHistory < horizon.Sessions()*3 {
		return ValidationError{"data.min_history",
			fmt.Sprintf("must be >= 3x horizon (%d), got %d", horizon.Sessions()*3, cfg.Data.MinHistory)}
	}
	if cfg.Data.MaxGapSessions < 1 {
		return ValidationError{"data.max_gap_sessions", "must be >= 1"}
	}

	if err := cfg.Features.Validate(); err != nil {
		return ValidationError{"features", err.Error()}
	}

	if cfg.Split.TrainFrac <= 0 || cfg.Split.ValFrac <= 0 {
		return ValidationError{"split", "fractions must be > 0"}
	}
	if cfg.Split.TrainFrac+cfg.Split.ValFrac >= 1 {
		return ValidationError{"split",
			fmt.Sprintf("train_frac + val_frac must be < 1, got %.2f", cfg.Split.TrainFrac+cfg.Split.ValFrac)}
	}
	if cfg.Split.MinSegmentRows < 1 {
		return ValidationError{"split.min_segment_rows", "must be >= 1"}
	}

	if cfg.Backtest.CostBps < 0 {
		return ValidationError{"backtest.cost_bps", "must be >= 0"}
	}
	if cfg.Backtest.LongThreshold < 0 || cfg.Backtest.LongThreshold > 1 {
		return ValidationError{"backtest.long_threshold", "must be in [0, 1]"}
	}
	switch cfg.Backtest.Benchmark {
	case "buy_and_hold", "none":
	default:
		return ValidationError{"backtest.benchmark",
			fmt.Sprintf("unknown benchmark %q (want buy_and_hold or none)", cfg.Backtest.Benchmark)}
	}

	return nil
}
