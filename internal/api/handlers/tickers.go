package handlers

import (
	"net/http"

	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/pkg/logger"
)

// TickersHandler serves the stored ticker universe.
type TickersHandler struct {
	repo *marketdata.PriceRepository
	log  *logger.Logger
}

// NewTickersHandler creates a tickers handler.
func NewTickersHandler(repo *marketdata.PriceRepository, log *logger.Logger) *TickersHandler {
	return &TickersHandler{
		repo: repo,
		log:  log.WithComponent("api.tickers"),
	}
}

// List handles GET /api/v1/tickers.
func (h *TickersHandler) List(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.repo.ListTickers(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list tickers")
		respondError(w, http.StatusInternalServerError, "failed to list tickers")
		return
	}
	if tickers == nil {
		tickers = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": tickers,
		"count":   len(tickers),
	})
}
