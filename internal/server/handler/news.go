package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// NewsService defines the methods the news handler requires from the
// service layer.
type NewsService interface {
	News(ctx context.Context) ([]domain.NewsItem, error)
}

// NewsHandler serves the news feed endpoint.
type NewsHandler struct {
	news   NewsService
	logger *slog.Logger
}

// NewNewsHandler creates a NewsHandler with the given service and logger.
func NewNewsHandler(news NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		news:   news,
		logger: logger,
	}
}

// ListNews returns the merged news feed, sorted by timestamp ascending.
// GET /news
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.News(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "news data not available yet")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: list news failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list news")
		return
	}

	writeJSON(w, http.StatusOK, items)
}
