package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// TickerService defines the methods the ticker handler requires from the
// service layer. It is declared locally so the handler package does not depend
// on the concrete service implementation.
type TickerService interface {
	Ticker(ctx context.Context, withHistory bool) ([]domain.TickerEntry, error)
	TickerEntry(ctx context.Context, marketID string, withHistory bool) (domain.TickerEntry, error)
	Markets(ctx context.Context) ([]domain.Market, error)
}

// TickerHandler serves the ticker and market listing endpoints.
type TickerHandler struct {
	ticker TickerService
	logger *slog.Logger
}

// NewTickerHandler creates a TickerHandler with the given service and logger.
func NewTickerHandler(ticker TickerService, logger *slog.Logger) *TickerHandler {
	return &TickerHandler{
		ticker: ticker,
		logger: logger,
	}
}

// ListTicker returns the price summary for every market with trade data.
// GET /ticker?history=true
func (h *TickerHandler) ListTicker(w http.ResponseWriter, r *http.Request) {
	withHistory := boolParam(r, "history", true)

	entries, err := h.ticker.Ticker(r.Context(), withHistory)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "ticker data not available yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: list ticker failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list ticker")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// GetTickerEntry returns the price summary for a single market.
// GET /ticker/{market_id}?history=true
func (h *TickerHandler) GetTickerEntry(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "market_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}
	withHistory := boolParam(r, "history", true)

	entry, err := h.ticker.TickerEntry(r.Context(), id, withHistory)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "market not found")
		case errors.Is(err, domain.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "ticker data not available yet")
		default:
			h.logger.ErrorContext(r.Context(), "handler: get ticker entry failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to get ticker entry")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// ListMarkets returns the tracked markets from the latest snapshot.
// GET /markets
func (h *TickerHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.ticker.Markets(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "market data not available yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list markets")
		return
	}

	writeJSON(w, http.StatusOK, markets)
}
