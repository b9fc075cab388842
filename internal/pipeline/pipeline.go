package pipeline

import (
	"context"
	"fmt"

	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/internal/dataset"
	"github.com/wonny/trendlab/backend/internal/features"
	"github.com/wonny/trendlab/backend/internal/labels"
	"github.com/wonny/trendlab/backend/internal/predictor"
	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/internal/strategy"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// Pipeline runs the full research sequence for one ticker: normalize,
// build features and labels, join, split with embargo, train, predict on
// the test segment, simulate and evaluate. It owns no I/O; callers hand it
// raw price records and receive a Result.
type Pipeline struct {
	cfg     strategy.Config
	horizon labels.Horizon
	builder *features.Builder
	factory predictor.Factory
	log     *logger.Logger
}

// Result is everything one ticker run produces.
type Result struct {
	Ticker     string           `json:"ticker"`
	Report     *backtest.Report `json:"report"`
	SplitStats dataset.Stats    `json:"split_stats"`
	ConfigHash string           `json:"config_hash"`

	// Warnings aggregates non-fatal findings from every stage. They are
	// surfaced, never masked; a warned result is still a result.
	Warnings []string `json:"warnings,omitempty"`
}

// New creates a pipeline from a validated strategy config.
func New(cfg strategy.Config, factory predictor.Factory, log *logger.Logger) (*Pipeline, error) {
	if err := strategy.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	horizon, err := labels.ParseHorizon(cfg.Data.Horizon)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	builder, err := features.NewBuilder(cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	if factory == nil {
		return nil, fmt.Errorf("pipeline: predictor factory is required")
	}

	return &Pipeline{
		cfg:     cfg,
		horizon: horizon,
		builder: builder,
		factory: factory,
		log:     log.WithComponent("pipeline"),
	}, nil
}

// Run executes the pipeline for one ticker. Per-ticker failures are
// ordinary errors; data integrity and leakage violations come back as
// their typed errors so batch callers can classify them.
func (p *Pipeline) Run(ctx context.Context, ticker string, raw []series.PricePoint) (*Result, error) {
	h := p.horizon.Sessions()

	normCfg := series.NormalizeConfig{
		Horizon:        h,
		MaxGapSessions: p.cfg.Data.MaxGapSessions,
	}
	ps, staleWarnings, err := series.Normalize(ticker, raw, normCfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Ticker: ticker}
	for _, w := range staleWarnings {
		result.Warnings = append(result.Warnings, w.String())
	}

	if ps.Len() < p.cfg.Data.MinHistory {
		return nil, &dataset.InsufficientDataError{
			Segment: "history",
			Rows:    ps.Len(),
			MinRows: p.cfg.Data.MinHistory,
		}
	}

	featureRows := p.builder.Build(ps)
	labelRows := labels.Build(ps, p.horizon)

	names := p.builder.Names()
	joined, err := dataset.Join(featureRows, labelRows, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	split, err := dataset.TemporalSplit(joined, names, p.cfg.SplitConfig(h))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	result.SplitStats = split.Stats()

	model := p.factory()
	if err := model.Train(ctx, split.Train); err != nil {
		return nil, fmt.Errorf("%s: train: %w", ticker, err)
	}

	probas, err := model.PredictProba(ctx, split.Test)
	if err != nil {
		return nil, fmt.Errorf("%s: predict: %w", ticker, err)
	}

	signals := make([]backtest.Signal, len(split.Test))
	for i, row := range split.Test {
		signals[i] = backtest.Signal{Date: row.Date, Proba: probas[i]}
	}

	sim, err := backtest.NewSimulator(p.cfg.BacktestConfig(), p.log)
	if err != nil {
		return nil, err
	}
	positions, err := sim.Run(ps, signals)
	if err != nil {
		return nil, err
	}

	// Buy-and-hold of the same ticker realizes exactly the per-session
	// gross returns, so the benchmark series falls out of the simulation.
	var benchmark []float64
	if p.cfg.Backtest.Benchmark == "buy_and_hold" {
		benchmark = make([]float64, len(positions))
		for i, pos := range positions {
			benchmark[i] = pos.GrossReturn
		}
	}

	report, err := backtest.Evaluate(positions, benchmark, p.cfg.Backtest.RiskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("%s: evaluate: %w", ticker, err)
	}
	report.Ticker = ticker
	report.Horizon = h
	report.Warnings = append(report.Warnings, result.Warnings...)
	result.Report = report
	result.Warnings = report.Warnings

	if hash, err := strategy.Hash(&p.cfg); err == nil {
		result.ConfigHash = hash
	}

	p.log.WithFields(map[string]interface{}{
		"ticker":     ticker,
		"sessions":   ps.Len(),
		"train":      result.SplitStats.Train,
		"test":       result.SplitStats.Test,
		"cum_return": report.CumulativeReturn,
		"sharpe":     report.SharpeRatio,
	}).Info("Pipeline run completed")

	return result, nil
}
