package backtest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository persists performance reports so runs can be compared
// over time and served by the API. The research core never touches this;
// it produces Reports and callers decide whether to store them.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save stores one report.
func (r *ReportRepository) Save(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO research.backtest_reports (
			ticker, horizon, start_date, end_date, sessions,
			cumulative_return, annualized_return, annualized_volatility,
			sharpe_ratio, max_drawdown, hit_rate,
			benchmark_return, benchmark_excess_return, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		report.Ticker, report.Horizon, report.StartDate, report.EndDate, report.Sessions,
		report.CumulativeReturn, report.AnnualizedReturn, report.AnnualizedVolatility,
		report.SharpeRatio, report.MaxDrawdown, report.HitRate,
		report.BenchmarkReturn, report.BenchmarkExcessReturn, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report for %s: %w", report.Ticker, err)
	}
	return nil
}

// ListByTicker returns stored reports for a ticker, most recent first.
func (r *ReportRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]*Report, error) {
	query := `
		SELECT ticker, horizon, start_date, end_date, sessions,
		       cumulative_return, annualized_return, annualized_volatility,
		       sharpe_ratio, max_drawdown, hit_rate,
		       benchmark_return, benchmark_excess_return, created_at
		FROM research.backtest_reports
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", ticker, err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.Ticker, &rep.Horizon, &rep.StartDate, &rep.EndDate, &rep.Sessions,
			&rep.CumulativeReturn, &rep.AnnualizedReturn, &rep.AnnualizedVolatility,
			&rep.SharpeRatio, &rep.MaxDrawdown, &rep.HitRate,
			&rep.BenchmarkReturn, &rep.BenchmarkExcessReturn, &rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}

// GetLatest returns the most recent report for a ticker and horizon.
func (r *ReportRepository) GetLatest(ctx context.Context, ticker string, horizon int) (*Report, error) {
	query := `
		SELECT ticker, horizon, start_date, end_date, sessions,
		       cumulative_return, annualized_return, annualized_volatility,
		       sharpe_ratio, max_drawdown, hit_rate,
		       benchmark_return, benchmark_excess_return, created_at
		FROM research.backtest_reports
		WHERE ticker = $1 AND horizon = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rep Report
	err := r.pool.QueryRow(ctx, query, ticker, horizon).Scan(
		&rep.Ticker, &rep.Horizon, &rep.StartDate, &rep.EndDate, &rep.Sessions,
		&rep.CumulativeReturn, &rep.AnnualizedReturn, &rep.AnnualizedVolatility,
		&rep.SharpeRatio, &rep.MaxDrawdown, &rep.HitRate,
		&rep.BenchmarkReturn, &rep.BenchmarkExcessReturn, &rep.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get latest report for %s/%d: %w", ticker, horizon, err)
	}
	return &rep, nil
}
