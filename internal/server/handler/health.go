package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// SnapshotInfo reports when the serving snapshot was last refreshed.
type SnapshotInfo interface {
	Snapshot() *domain.Snapshot
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	snapshots SnapshotInfo
	clock     domain.Clock
	logger    *slog.Logger
}

// NewHealthHandler creates a HealthHandler with the provided snapshot source.
func NewHealthHandler(snapshots SnapshotInfo, clock domain.Clock, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		snapshots: snapshots,
		clock:     clock,
		logger:    logger,
	}
}

// HealthCheck responds with the server status and the age of the latest
// snapshot. A missing snapshot is reported but does not fail the check, so
// the endpoint stays useful during startup.
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	body := map[string]any{
		"status":    "ok",
		"timestamp": now.UTC().Format(time.RFC3339),
	}

	if snap := h.snapshots.Snapshot(); snap != nil {
		body["snapshot_age_seconds"] = int64(now.Sub(snap.FetchedAt).Seconds())
		body["snapshot_fetched_at"] = snap.FetchedAt.UTC().Format(time.RFC3339)
	} else {
		body["snapshot_age_seconds"] = nil
	}

	writeJSON(w, http.StatusOK, body)
}
