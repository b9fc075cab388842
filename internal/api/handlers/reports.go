package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// ReportsHandler serves stored backtest reports.
type ReportsHandler struct {
	repo *backtest.ReportRepository
	log  *logger.Logger
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(repo *backtest.ReportRepository, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		repo: repo,
		log:  log.WithComponent("api.reports"),
	}
}

// List handles GET /api/v1/backtests/{ticker}.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	reports, err := h.repo.ListByTicker(r.Context(), ticker, limit)
	if err != nil {
		h.log.WithError(err).WithField("ticker", ticker).Error("Failed to list reports")
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []*backtest.Report{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"reports": reports,
	})
}

// Latest handles GET /api/v1/backtests/{ticker}/latest?horizon=5.
func (h *ReportsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	horizon := 5
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || (parsed != 5 && parsed != 21) {
			respondError(w, http.StatusBadRequest, "horizon must be 5 or 21")
			return
		}
		horizon = parsed
	}

	report, err := h.repo.GetLatest(r.Context(), ticker, horizon)
	if err != nil {
		respondError(w, http.StatusNotFound, "no report found")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
