package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/trendlab/backend/internal/api/handlers"
	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/pkg/database"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter wires all routes and middleware.
func NewRouter(db *database.DB, reports *backtest.ReportRepository, prices *marketdata.PriceRepository, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()

	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log.WithComponent("api")))

	health := handlers.NewHealthHandler(db, Version)
	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	reportsHandler := handlers.NewReportsHandler(reports, log)
	v1.HandleFunc("/backtests/{ticker}", reportsHandler.List).Methods(http.MethodGet)
	v1.HandleFunc("/backtests/{ticker}/latest", reportsHandler.Latest).Methods(http.MethodGet)

	tickersHandler := handlers.NewTickersHandler(prices, log)
	v1.HandleFunc("/tickers", tickersHandler.List).Methods(http.MethodGet)

	return r
}
