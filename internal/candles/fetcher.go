package candles

import (
	"context"
	"log/slog"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// API retrieves candle series from the node.
type API interface {
	ListCandles(ctx context.Context, marketID string, interval domain.Interval, since time.Time, decimals int) ([]domain.Candle, error)
}

// Status classifies the outcome of one candle fetch.
type Status int

const (
	// StatusData means candles were returned.
	StatusData Status = iota
	// StatusNoData means the call succeeded but the market has no candles
	// in the window. A normal outcome, not an error.
	StatusNoData
	// StatusFailed means the upstream call failed; Err carries the cause.
	// Callers degrade the affected market to "no data".
	StatusFailed
)

// Result is the outcome of one fetch. Callers that only care about
// presence can use Candles directly: it is empty unless Status is
// StatusData.
type Result struct {
	Status  Status
	Candles []domain.Candle
	Err     error
}

// Fetcher retrieves normalized candle series for a lookback window ending
// at the current time.
type Fetcher struct {
	api    API
	clock  domain.Clock
	logger *slog.Logger
}

// NewFetcher creates a Fetcher reading the current time from clock.
func NewFetcher(api API, clock domain.Clock, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		api:    api,
		clock:  clock,
		logger: logger.With(slog.String("component", "candle_fetcher")),
	}
}

// Fetch returns the candle series for marketID over the trailing window at
// the given interval. Upstream failures are degraded to StatusFailed and
// logged, never propagated.
func (f *Fetcher) Fetch(ctx context.Context, marketID string, window time.Duration, interval domain.Interval, decimals int) Result {
	since := f.clock.Now().Add(-window)

	cs, err := f.api.ListCandles(ctx, marketID, interval, since, decimals)
	if err != nil {
		f.logger.WarnContext(ctx, "candle fetch failed",
			slog.String("market_id", marketID),
			slog.String("interval", string(interval)),
			slog.String("error", err.Error()),
		)
		return Result{Status: StatusFailed, Err: err}
	}
	if len(cs) == 0 {
		return Result{Status: StatusNoData}
	}
	return Result{Status: StatusData, Candles: cs}
}
