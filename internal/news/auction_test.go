package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

type fakeAuctionAPI struct {
	markets    []domain.Market
	marketsErr error

	data         []domain.MarketData
	dataErr      error
	lastDecimals map[string]int
}

func (f *fakeAuctionAPI) ListMarkets(context.Context) ([]domain.Market, error) {
	return f.markets, f.marketsErr
}

func (f *fakeAuctionAPI) ListMarketsData(_ context.Context, decimals map[string]int) ([]domain.MarketData, error) {
	f.lastDecimals = decimals
	return f.data, f.dataErr
}

func TestAuctionMonitor(t *testing.T) {
	start := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)

	markets := []domain.Market{
		{ID: "m1", Code: "BTC/USD", DecimalPlaces: 5},
		{ID: "m2", Code: "ETH/USD", DecimalPlaces: 3},
	}

	t.Run("liquidity and price auctions", func(t *testing.T) {
		api := &fakeAuctionAPI{
			markets: markets,
			data: []domain.MarketData{
				{MarketID: "m1", AuctionStart: start, Trigger: domain.AuctionTriggerLiquidity},
				{MarketID: "m2", AuctionStart: start, Trigger: domain.AuctionTriggerPrice},
			},
		}
		m := NewAuctionMonitor(api, testURLs(), discardLogger())

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "liquidity_auction", items[0].Subtype)
		assert.Equal(t, "Market in liquidity auction: BTC/USD", items[0].Message)
		assert.Equal(t, start, items[0].Timestamp)

		assert.Equal(t, "price_auction", items[1].Subtype)
		assert.Equal(t, "Market in price monitoring: ETH/USD", items[1].Message)
	})

	t.Run("decimals passed through from market metadata", func(t *testing.T) {
		api := &fakeAuctionAPI{markets: markets}
		m := NewAuctionMonitor(api, testURLs(), discardLogger())

		_, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"m1": 5, "m2": 3}, api.lastDecimals)
	})

	t.Run("markets not in auction skipped", func(t *testing.T) {
		api := &fakeAuctionAPI{
			markets: markets,
			data: []domain.MarketData{
				{MarketID: "m1"},
				{MarketID: "m2", AuctionStart: start, Trigger: domain.AuctionTriggerUnspecified},
			},
		}
		m := NewAuctionMonitor(api, testURLs(), discardLogger())

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unknown market data skipped", func(t *testing.T) {
		api := &fakeAuctionAPI{
			markets: markets,
			data: []domain.MarketData{
				{MarketID: "unknown", AuctionStart: start, Trigger: domain.AuctionTriggerLiquidity},
			},
		}
		m := NewAuctionMonitor(api, testURLs(), discardLogger())

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("upstream failures propagate", func(t *testing.T) {
		m := NewAuctionMonitor(&fakeAuctionAPI{marketsErr: errors.New("boom")}, testURLs(), discardLogger())
		_, err := m.Produce(context.Background())
		assert.Error(t, err)

		m = NewAuctionMonitor(&fakeAuctionAPI{markets: markets, dataErr: errors.New("boom")}, testURLs(), discardLogger())
		_, err = m.Produce(context.Background())
		assert.Error(t, err)
	})
}
