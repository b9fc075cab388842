package backtest

import (
	"fmt"
	"time"

	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// Config holds simulation parameters.
type Config struct {
	// CostBps is the transaction cost in basis points, charged whenever
	// exposure changes from the previous session.
	CostBps float64 `yaml:"cost_bps" json:"cost_bps"`

	// LongThreshold is the predicted up-probability at or above which the
	// strategy holds the stock for the next session. Position sizing is
	// binary: fully long or flat.
	LongThreshold float64 `yaml:"long_threshold" json:"long_threshold"`
}

// DefaultConfig returns 10bp costs and a neutral threshold.
func DefaultConfig() Config {
	return Config{
		CostBps:       10,
		LongThreshold: 0.5,
	}
}

// Validate checks parameter sanity.
func (c Config) Validate() error {
	if c.CostBps < 0 {
		return fmt.Errorf("cost_bps must be >= 0, got %f", c.CostBps)
	}
	if c.LongThreshold < 0 || c.LongThreshold > 1 {
		return fmt.Errorf("long_threshold must be in [0, 1], got %f", c.LongThreshold)
	}
	return nil
}

// Signal is one model output aligned to a session of the price series.
type Signal struct {
	Date  time.Time
	Proba float64
}

// Position is the state of one simulated session. Realized returns are the
// actual next-session move of the adjusted close; the simulation
// compounds at trading frequency regardless of the label horizon, so
// Sharpe and drawdown come out at the right frequency.
type Position struct {
	Date        time.Time `json:"date"`
	Proba       float64   `json:"proba"`
	Exposure    float64   `json:"exposure"` // 0 or 1
	GrossReturn float64   `json:"gross_return"`
	Cost        float64   `json:"cost"`
	NetReturn   float64   `json:"net_return"`
	Equity      float64   `json:"equity"`

	// Skipped marks a session whose forward return is undefined (end of
	// series). It stays on the time axis with zero P&L; dropping it would
	// distort drawdown durations downstream.
	Skipped bool `json:"skipped"`
}

// Simulator replays signals day by day against realized returns. One
// transition per session, strictly in order; each session's state depends
// on the previous one, so a single ticker's simulation is never
// parallelized.
type Simulator struct {
	cfg Config
	log *logger.Logger
}

// NewSimulator creates a simulator.
func NewSimulator(cfg Config, log *logger.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	return &Simulator{cfg: cfg, log: log.WithComponent("backtest.simulator")}, nil
}

// Run simulates the signal sequence against the normalized price series.
// Signals must be chronologically ordered and every signal date must be a
// session of the series. Equity starts at 1.0 and compounds
// multiplicatively; costs are charged on every exposure change.
func (s *Simulator) Run(ps *series.PriceSeries, signals []Signal) ([]Position, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("simulate %s: no signals", ps.Ticker)
	}

	adj := ps.AdjCloses()
	positions := make([]Position, 0, len(signals))
	exposure := 0.0 // first session starts flat
	equity := 1.0
	costRate := s.cfg.CostBps / 10000.0

	for i, sig := range signals {
		if i > 0 && !signals[i-1].Date.Before(sig.Date) {
			return nil, fmt.Errorf("simulate %s: signals out of order at %s",
				ps.Ticker, sig.Date.Format("2006-01-02"))
		}

		idx := ps.IndexOf(sig.Date)
		if idx < 0 {
			return nil, fmt.Errorf("simulate %s: signal date %s is not a session",
				ps.Ticker, sig.Date.Format("2006-01-02"))
		}

		target := 0.0
		if sig.Proba >= s.cfg.LongThreshold {
			target = 1.0
		}

		cost := 0.0
		if target != exposure {
			cost = costRate * abs(target-exposure)
		}
		exposure = target

		pos := Position{
			Date:     sig.Date,
			Proba:    sig.Proba,
			Exposure: exposure,
			Cost:     cost,
		}

		if idx+1 >= ps.Len() {
			// No next session: state advances, P&L does not.
			pos.Skipped = true
			pos.Equity = equity
			positions = append(positions, pos)
			continue
		}

		gross := adj[idx+1]/adj[idx] - 1
		net := exposure*gross - cost
		equity *= 1 + net

		pos.GrossReturn = gross
		pos.NetReturn = net
		pos.Equity = equity
		positions = append(positions, pos)
	}

	s.log.WithFields(map[string]interface{}{
		"ticker":   ps.Ticker,
		"sessions": len(positions),
		"equity":   equity,
	}).Debug("Simulation completed")

	return positions, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
