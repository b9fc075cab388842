package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/trendlab/backend/internal/series"
	"github.com/wonny/trendlab/backend/pkg/config"
	"github.com/wonny/trendlab/backend/pkg/httputil"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// BrapiClient fetches daily OHLCV history from brapi.dev. All requests go
// through the shared HTTP client, which enforces the provider rate limit
// and retries transient failures.
type BrapiClient struct {
	http    *httputil.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

// NewBrapiClient creates a brapi.dev client from config.
func NewBrapiClient(cfg config.BrapiConfig, log *logger.Logger) *BrapiClient {
	httpClient := httputil.New(log).
		WithTimeout(30 * time.Second).
		WithRateLimit(cfg.RateLimit)

	return &BrapiClient{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		log:     log.WithComponent("marketdata.brapi"),
	}
}

// FetchDaily retrieves daily candles for one ticker over the given range
// ("1y", "2y", "5y", "max"). Candles come back as raw price points; the
// caller runs them through series.Normalize before any analysis.
func (c *BrapiClient) FetchDaily(ctx context.Context, ticker, dataRange string) ([]series.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/%s?range=%s&interval=1d", c.baseURL, url.PathEscape(ticker), url.QueryEscape(dataRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("brapi request for %s: %w", ticker, err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brapi fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brapi fetch %s: status %d", ticker, resp.StatusCode)
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("brapi decode %s: %w", ticker, err)
	}

	if payload.Error {
		return nil, fmt.Errorf("brapi fetch %s: %s", ticker, payload.Message)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("brapi fetch %s: empty results", ticker)
	}

	candles := payload.Results[0].HistoricalDataPrice
	points := make([]series.PricePoint, 0, len(candles))
	for _, candle := range candles {
		points = append(points, series.PricePoint{
			Date:     time.Unix(candle.Date, 0).UTC(),
			Open:     candle.Open,
			High:     candle.High,
			Low:      candle.Low,
			Close:    candle.Close,
			AdjClose: candle.AdjustedClose,
			Volume:   candle.Volume,
		})
	}

	c.log.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"range":   dataRange,
		"candles": len(points),
	}).Debug("Fetched price history")

	return points, nil
}
