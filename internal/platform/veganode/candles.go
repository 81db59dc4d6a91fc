package veganode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// candleIntervalNames maps an interval to the name embedded in the node's
// candle IDs.
var candleIntervalNames = map[domain.Interval]string{
	domain.Interval1M:  "1_minute",
	domain.Interval5M:  "5_minutes",
	domain.Interval15M: "15_minutes",
	domain.Interval1H:  "1_hour",
	domain.Interval6H:  "6_hours",
	domain.Interval1D:  "1_day",
}

// CandleID builds the well-known candle series identifier for a market and
// interval, e.g. "trades_candle_1_minute_<market>".
func CandleID(marketID string, interval domain.Interval) string {
	return fmt.Sprintf("trades_candle_%s_%s", candleIntervalNames[interval], marketID)
}

// ListCandles returns the candle series for one market and interval,
// starting at since. Prices are scaled down by decimals; a malformed
// candle record is skipped, not fatal.
func (c *Client) ListCandles(ctx context.Context, marketID string, interval domain.Interval, since time.Time, decimals int) ([]domain.Candle, error) {
	params := url.Values{}
	params.Set("candleId", CandleID(marketID, interval))
	params.Set("fromTimestamp", strconv.FormatInt(since.UnixNano(), 10))
	params.Set("interval", string(interval))

	body, err := c.doGet(ctx, "/api/v2/candle?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("veganode: list candles %s: %w", marketID, err)
	}

	var resp candlesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("veganode: decode candles %s: %w", marketID, err)
	}

	candles := make([]domain.Candle, 0, len(resp.Candles.Edges))
	for i := range resp.Candles.Edges {
		cd, err := resp.Candles.Edges[i].Node.ToDomain(decimals)
		if err != nil {
			continue
		}
		candles = append(candles, cd)
	}
	return candles, nil
}
