package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendlab/backend/pkg/config"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

const quoteFixture = `{
	"results": [{
		"symbol": "PETR4",
		"currency": "BRL",
		"historicalDataPrice": [
			{"date": 1704672000, "open": 37.1, "high": 37.9, "low": 36.8, "close": 37.5, "adjustedClose": 36.9, "volume": 51000000},
			{"date": 1704758400, "open": 37.5, "high": 38.2, "low": 37.2, "close": 38.0, "volume": 48000000}
		]
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*BrapiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewBrapiClient(config.BrapiConfig{
		APIKey:    "test-token",
		BaseURL:   server.URL,
		RateLimit: 100,
	}, logger.NewNop())
	return client, server
}

func TestFetchDaily_ParsesCandles(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, quoteFixture)
	})

	points, err := client.FetchDaily(context.Background(), "PETR4", "1y")
	require.NoError(t, err)

	assert.Equal(t, "/PETR4", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)

	require.Len(t, points, 2)
	assert.Equal(t, time.Unix(1704672000, 0).UTC(), points[0].Date)
	assert.Equal(t, 37.5, points[0].Close)
	assert.Equal(t, 36.9, points[0].AdjClose)
	// Second candle has no adjustedClose; it stays zero here and the
	// normalizer applies the close fallback later.
	assert.Equal(t, 0.0, points[1].AdjClose)
	assert.Equal(t, 38.0, points[1].Close)
}

func TestFetchDaily_ProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": true, "message": "ticker not found", "results": []}`)
	})

	_, err := client.FetchDaily(context.Background(), "NOPE9", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker not found")
}

func TestFetchDaily_EmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	})

	_, err := client.FetchDaily(context.Background(), "PETR4", "1y")
	assert.Error(t, err)
}

func TestFetchDaily_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchDaily(context.Background(), "PETR4", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFetchUniverse_CollectsPerTickerErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/FAIL3" {
			fmt.Fprint(w, `{"error": true, "message": "ticker not found", "results": []}`)
			return
		}
		fmt.Fprint(w, quoteFixture)
	})

	fetcher := NewFetcher(client, nil, nil, logger.NewNop())
	results, errs := fetcher.FetchUniverse(context.Background(), []string{"PETR4", "FAIL3", "VALE3"}, "1y")

	assert.Len(t, results, 2)
	require.Len(t, errs, 1)
	assert.Error(t, errs["FAIL3"])
}
