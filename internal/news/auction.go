package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vegaprotocol/ticker-service/internal/consoleurl"
	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// auctionAPI is what the auction monitor needs from the node client.
type auctionAPI interface {
	ListMarkets(ctx context.Context) ([]domain.Market, error)
	ListMarketsData(ctx context.Context, decimals map[string]int) ([]domain.MarketData, error)
}

// AuctionMonitor cross-references market metadata with live market data to
// report markets currently held in a liquidity or price monitoring
// auction. Items are keyed by the auction start time.
type AuctionMonitor struct {
	api    auctionAPI
	urls   *consoleurl.Builder
	logger *slog.Logger
}

// NewAuctionMonitor creates an AuctionMonitor.
func NewAuctionMonitor(api auctionAPI, urls *consoleurl.Builder, logger *slog.Logger) *AuctionMonitor {
	return &AuctionMonitor{
		api:    api,
		urls:   urls,
		logger: logger.With(slog.String("producer", "auction_monitor")),
	}
}

func (m *AuctionMonitor) Name() string { return "auction_monitor" }

// Produce emits one item per market currently in a triggered auction.
func (m *AuctionMonitor) Produce(ctx context.Context) ([]domain.NewsItem, error) {
	markets, err := m.api.ListMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("auction monitor: %w", err)
	}

	lookup := make(map[string]domain.Market, len(markets))
	decimals := make(map[string]int, len(markets))
	for _, mkt := range markets {
		lookup[mkt.ID] = mkt
		decimals[mkt.ID] = mkt.DecimalPlaces
	}

	data, err := m.api.ListMarketsData(ctx, decimals)
	if err != nil {
		return nil, fmt.Errorf("auction monitor: %w", err)
	}

	var items []domain.NewsItem
	for _, d := range data {
		mkt, ok := lookup[d.MarketID]
		if !ok || d.AuctionStart.IsZero() {
			continue
		}

		var subtype, message string
		switch d.Trigger {
		case domain.AuctionTriggerLiquidity:
			subtype = "liquidity_auction"
			message = "Market in liquidity auction: " + mkt.Code
		case domain.AuctionTriggerPrice:
			subtype = "price_auction"
			message = "Market in price monitoring: " + mkt.Code
		default:
			continue
		}

		items = append(items, domain.NewsItem{
			Timestamp: d.AuctionStart,
			Type:      domain.ItemMarketStatus,
			Subtype:   subtype,
			Message:   message,
			URL:       m.urls.Market(mkt.ID),
		})
	}

	m.logger.DebugContext(ctx, "produced auction news", slog.Int("count", len(items)))
	return items, nil
}
