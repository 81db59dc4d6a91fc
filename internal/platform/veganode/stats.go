package veganode

import (
	"context"
	"encoding/json"
	"fmt"
)

// Statistics returns the node's network statistics as an opaque JSON blob.
// The shape is owned by the node and passed through unmodified.
func (c *Client) Statistics(ctx context.Context) (json.RawMessage, error) {
	body, err := c.doGet(ctx, "/statistics")
	if err != nil {
		return nil, fmt.Errorf("veganode: statistics: %w", err)
	}

	var resp statisticsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("veganode: decode statistics: %w", err)
	}
	if len(resp.Statistics) == 0 {
		return nil, fmt.Errorf("veganode: statistics missing from response")
	}
	return resp.Statistics, nil
}
