package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// StatsService defines the methods the stats handler requires from the
// service layer.
type StatsService interface {
	Stats(ctx context.Context) (json.RawMessage, error)
}

// StatsHandler serves the node statistics passthrough endpoint.
type StatsHandler struct {
	stats  StatsService
	logger *slog.Logger
}

// NewStatsHandler creates a StatsHandler with the given service and logger.
func NewStatsHandler(stats StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// GetStats returns the node statistics blob captured in the latest snapshot.
// When no statistics have been captured yet, the response body is an error
// placeholder so consumers always receive a JSON object.
// GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	blob, err := h.stats.Stats(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			writeJSON(w, http.StatusOK, map[string]string{"error": "statistics not available"})
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get stats failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	writeRawJSON(w, http.StatusOK, blob)
}
