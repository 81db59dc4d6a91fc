package veganode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// ListProposals returns all governance proposals known to the node.
// Malformed records are skipped rather than failing the listing.
func (c *Client) ListProposals(ctx context.Context) ([]domain.Proposal, error) {
	body, err := c.doGet(ctx, "/governance/proposals")
	if err != nil {
		return nil, fmt.Errorf("veganode: list proposals: %w", err)
	}

	var resp proposalsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("veganode: decode proposals: %w", err)
	}

	proposals := make([]domain.Proposal, 0, len(resp.Data))
	for i := range resp.Data {
		p, err := resp.Data[i].Proposal.ToDomain()
		if err != nil {
			continue
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}
