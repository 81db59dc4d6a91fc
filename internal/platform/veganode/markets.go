package veganode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// ListMarkets returns every market known to the node. Individual malformed
// records are skipped rather than failing the whole listing.
func (c *Client) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	body, err := c.doGet(ctx, "/api/v2/markets")
	if err != nil {
		return nil, fmt.Errorf("veganode: list markets: %w", err)
	}

	var resp marketsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("veganode: decode markets: %w", err)
	}

	markets := make([]domain.Market, 0, len(resp.Markets.Edges))
	for i := range resp.Markets.Edges {
		m, err := resp.Markets.Edges[i].Node.ToDomain()
		if err != nil {
			continue
		}
		markets = append(markets, m)
	}
	return markets, nil
}

// ListMarketsData returns the live trading state of every market. decimals
// maps market ID to the market's decimal places for mark price scaling;
// records for unknown markets or with unparseable prices are skipped.
func (c *Client) ListMarketsData(ctx context.Context, decimals map[string]int) ([]domain.MarketData, error) {
	body, err := c.doGet(ctx, "/datanode/rest/markets-data")
	if err != nil {
		return nil, fmt.Errorf("veganode: list markets data: %w", err)
	}

	var resp marketsDataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("veganode: decode markets data: %w", err)
	}

	out := make([]domain.MarketData, 0, len(resp.MarketsData))
	for i := range resp.MarketsData {
		dp, ok := decimals[resp.MarketsData[i].Market]
		if !ok {
			continue
		}
		md, err := resp.MarketsData[i].ToDomain(dp)
		if err != nil {
			continue
		}
		out = append(out, md)
	}
	return out, nil
}
