package ticker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/cache/memory"
	"github.com/vegaprotocol/ticker-service/internal/domain"
)

type staticSource struct {
	snap *domain.Snapshot
}

func (s *staticSource) Snapshot() *domain.Snapshot { return s.snap }

func testSnapshot(now time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		Markets: map[string]domain.Market{
			"m1": {ID: "m1", Code: "ETH/USD", Name: "Ether", State: domain.MarketStateActive},
			"m2": {ID: "m2", Code: "BTC/USD", Name: "Bitcoin", State: domain.MarketStateActive},
			"m3": {ID: "m3", Code: "SOL/USD", Name: "Solana", State: domain.MarketStatePending},
		},
		Summaries: map[string]domain.PriceSummary{
			"m1": {Candle: domain.Candle{Open: 100, Close: 120}, Change: 0.2, Action: domain.ActionGainer},
			"m2": {Candle: domain.Candle{Open: 50, Close: 45}, Change: -0.1, Action: domain.ActionLoser},
		},
		Histories: map[string][]float64{
			"m1": {100, 110, 120},
		},
		News: []domain.NewsItem{
			{Timestamp: now.Add(-time.Hour), Type: domain.ItemMarketStatus, Message: "hello"},
		},
		Stats:     json.RawMessage(`{"blockHeight":"42"}`),
		FetchedAt: now,
	}
}

func newTestService(snap *domain.Snapshot, cache domain.QueryCache) *Service {
	return NewService(&staticSource{snap: snap}, cache, CacheTTLs{
		Market: 10 * time.Second,
		News:   10 * time.Second,
		Stats:  10 * time.Second,
	}, discardLogger())
}

func TestTicker(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no snapshot yet", func(t *testing.T) {
		s := newTestService(nil, nil)
		_, err := s.Ticker(context.Background(), true)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("sorted by code, markets without price data omitted", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)

		entries, err := s.Ticker(context.Background(), true)
		require.NoError(t, err)
		require.Len(t, entries, 2, "m3 has no summary")

		assert.Equal(t, "m2", entries[0].ID)
		assert.Equal(t, "m1", entries[1].ID)

		require.NotNil(t, entries[1].PriceData)
		assert.Equal(t, domain.ActionGainer, entries[1].PriceData.Action)
		assert.Equal(t, []float64{100, 110, 120}, entries[1].History)
	})

	t.Run("history elided on request", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)

		entries, err := s.Ticker(context.Background(), false)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Nil(t, e.History)
		}
	})
}

func TestTickerEntry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown market", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)
		_, err := s.TickerEntry(context.Background(), "nope", true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("known market without price data", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)

		entry, err := s.TickerEntry(context.Background(), "m3", true)
		require.NoError(t, err)
		assert.Equal(t, "m3", entry.ID)
		assert.Nil(t, entry.PriceData, "absent price data is not an error")
	})

	t.Run("known market with price data", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)

		entry, err := s.TickerEntry(context.Background(), "m1", true)
		require.NoError(t, err)
		require.NotNil(t, entry.PriceData)
		assert.InDelta(t, 0.2, entry.PriceData.Change, 1e-9)
	})
}

func TestMarkets(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(testSnapshot(now), nil)

	markets, err := s.Markets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 3)
	assert.Equal(t, "BTC/USD", markets[0].Code)
	assert.Equal(t, "ETH/USD", markets[1].Code)
	assert.Equal(t, "SOL/USD", markets[2].Code)
}

func TestNews(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(testSnapshot(now), nil)

	items, err := s.News(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hello", items[0].Message)
}

func TestStats(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("blob passthrough", func(t *testing.T) {
		s := newTestService(testSnapshot(now), nil)

		blob, err := s.Stats(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"blockHeight":"42"}`, string(blob))
	})

	t.Run("empty blob unavailable", func(t *testing.T) {
		snap := testSnapshot(now)
		snap.Stats = nil
		s := newTestService(snap, nil)

		_, err := s.Stats(context.Background())
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})
}

func TestQueryCacheServesStaleWithinTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := &staticSource{snap: testSnapshot(now)}
	cache := memory.New(16, fixedClock{now: now})
	s := NewService(source, cache, CacheTTLs{Market: 10 * time.Second}, discardLogger())

	first, err := s.Ticker(context.Background(), true)
	require.NoError(t, err)

	// Swap the snapshot; the cached result keeps serving until its TTL.
	source.snap = &domain.Snapshot{Markets: map[string]domain.Market{}, FetchedAt: now}

	second, err := s.Ticker(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
