package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/consoleurl"
	"github.com/vegaprotocol/ticker-service/internal/domain"
)

type fakeMarketLister struct {
	markets []domain.Market
	err     error
}

func (f *fakeMarketLister) ListMarkets(context.Context) ([]domain.Market, error) {
	return f.markets, f.err
}

func testURLs() *consoleurl.Builder {
	return consoleurl.New("https://console.test", "https://governance.test", "https://explorer.test")
}

func TestLifecycleMonitor(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	newMonitor := func(markets []domain.Market, err error) *LifecycleMonitor {
		return NewLifecycleMonitor(&fakeMarketLister{markets: markets, err: err}, testURLs(), clock, discardLogger())
	}

	t.Run("closed market", func(t *testing.T) {
		m := newMonitor([]domain.Market{{
			ID:      "m1",
			Code:    "BTC/USD",
			State:   domain.MarketStateClosed,
			OpenAt:  now.Add(-48 * time.Hour),
			CloseAt: now.Add(-time.Hour),
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "closed", items[0].Subtype)
		assert.Equal(t, "Market closed: BTC/USD", items[0].Message)
		assert.Equal(t, now.Add(-time.Hour), items[0].Timestamp)
		assert.Equal(t, "https://console.test/markets/m1", items[0].URL)
	})

	t.Run("opened market", func(t *testing.T) {
		m := newMonitor([]domain.Market{{
			ID:     "m2",
			Code:   "ETH/USD",
			State:  domain.MarketStateActive,
			OpenAt: now.Add(-time.Hour),
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "opened", items[0].Subtype)
		assert.Equal(t, "Market created: ETH/USD", items[0].Message)
	})

	t.Run("pending market emits exactly one opening item", func(t *testing.T) {
		m := newMonitor([]domain.Market{{
			ID:        "m3",
			Code:      "SOL/USD",
			State:     domain.MarketStatePending,
			PendingAt: now.Add(-30 * time.Minute),
			OpenAt:    now.Add(time.Hour),
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "opening", items[0].Subtype)
		assert.Equal(t, "Market in opening auction: SOL/USD", items[0].Message)
		assert.Equal(t, now.Add(-30*time.Minute), items[0].Timestamp)
	})

	t.Run("closed wins over opened", func(t *testing.T) {
		m := newMonitor([]domain.Market{{
			ID:      "m4",
			Code:    "DOT/USD",
			State:   domain.MarketStateActive,
			OpenAt:  now.Add(-48 * time.Hour),
			CloseAt: now.Add(-time.Hour),
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "closed", items[0].Subtype)
	})

	t.Run("future timestamps emit nothing", func(t *testing.T) {
		m := newMonitor([]domain.Market{{
			ID:        "m5",
			Code:      "ADA/USD",
			State:     domain.MarketStatePending,
			PendingAt: now.Add(time.Hour),
			OpenAt:    now.Add(2 * time.Hour),
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		m := newMonitor(nil, errors.New("boom"))

		_, err := m.Produce(context.Background())
		assert.Error(t, err)
	})
}
