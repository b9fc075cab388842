package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/trendlab/backend/internal/series"
)

// PriceRepository persists daily candles. Upserts are idempotent on
// (ticker, date), so re-fetching a range never duplicates sessions.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// UpsertPrices stores candles for a ticker in one batch.
func (r *PriceRepository) UpsertPrices(ctx context.Context, ticker string, points []series.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	query := `
		INSERT INTO market.daily_prices (
			ticker, trade_date, open, high, low, close, adjusted_close, volume
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			adjusted_close = EXCLUDED.adjusted_close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(query,
			ticker, p.Date, p.Open, p.High, p.Low, p.Close, p.AdjClose, p.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert prices for %s: %w", ticker, err)
		}
	}
	return nil
}

// GetRange returns candles for a ticker between two dates inclusive, date
// ascending.
func (r *PriceRepository) GetRange(ctx context.Context, ticker string, from, to time.Time) ([]series.PricePoint, error) {
	query := `
		SELECT trade_date, open, high, low, close, adjusted_close, volume
		FROM market.daily_prices
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("get prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanPoints(rows, ticker)
}

// GetAll returns the full stored history of a ticker, date ascending.
func (r *PriceRepository) GetAll(ctx context.Context, ticker string) ([]series.PricePoint, error) {
	query := `
		SELECT trade_date, open, high, low, close, adjusted_close, volume
		FROM market.daily_prices
		WHERE ticker = $1
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanPoints(rows, ticker)
}

// ListTickers returns every ticker with stored history.
func (r *PriceRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT ticker FROM market.daily_prices ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

func scanPoints(rows pgx.Rows, ticker string) ([]series.PricePoint, error) {
	var points []series.PricePoint
	for rows.Next() {
		var p series.PricePoint
		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan price for %s: %w", ticker, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
