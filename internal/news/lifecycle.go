package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/consoleurl"
	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// marketLister is what the lifecycle monitor needs from the node client.
type marketLister interface {
	ListMarkets(ctx context.Context) ([]domain.Market, error)
}

// LifecycleMonitor classifies each market against its lifecycle
// timestamps: newly closed, newly opened, or still in its opening auction.
// At most one item is emitted per market; when several conditions hold at
// once the most terminal state wins (closed over opened over opening).
type LifecycleMonitor struct {
	api    marketLister
	urls   *consoleurl.Builder
	clock  domain.Clock
	logger *slog.Logger
}

// NewLifecycleMonitor creates a LifecycleMonitor.
func NewLifecycleMonitor(api marketLister, urls *consoleurl.Builder, clock domain.Clock, logger *slog.Logger) *LifecycleMonitor {
	return &LifecycleMonitor{
		api:    api,
		urls:   urls,
		clock:  clock,
		logger: logger.With(slog.String("producer", "lifecycle_monitor")),
	}
}

func (m *LifecycleMonitor) Name() string { return "lifecycle_monitor" }

// Produce emits lifecycle items for every market.
func (m *LifecycleMonitor) Produce(ctx context.Context) ([]domain.NewsItem, error) {
	markets, err := m.api.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("lifecycle monitor: %w", err)
	}

	now := m.clock.Now()
	var items []domain.NewsItem
	for _, mkt := range markets {
		item, ok := m.classify(mkt, now)
		if ok {
			items = append(items, item)
		}
	}

	m.logger.DebugContext(ctx, "produced lifecycle news", slog.Int("count", len(items)))
	return items, nil
}

func (m *LifecycleMonitor) classify(mkt domain.Market, now time.Time) (domain.NewsItem, bool) {
	item := domain.NewsItem{
		Type: domain.ItemMarketStatus,
		URL:  m.urls.Market(mkt.ID),
	}

	switch {
	case !mkt.CloseAt.IsZero() && mkt.CloseAt.Before(now):
		item.Timestamp = mkt.CloseAt
		item.Subtype = "closed"
		item.Message = "Market closed: " + mkt.Code
	case !mkt.OpenAt.IsZero() && mkt.OpenAt.Before(now) && mkt.State == domain.MarketStateActive:
		item.Timestamp = mkt.OpenAt
		item.Subtype = "opened"
		item.Message = "Market created: " + mkt.Code
	case !mkt.PendingAt.IsZero() && mkt.PendingAt.Before(now) && mkt.State == domain.MarketStatePending:
		item.Timestamp = mkt.PendingAt
		item.Subtype = "opening"
		item.Message = "Market in opening auction: " + mkt.Code
	default:
		return domain.NewsItem{}, false
	}
	return item, true
}
