package domain

import "time"

// ItemType is the broad category of a news item.
type ItemType string

const (
	ItemNewMarket      ItemType = "new_market"
	ItemMarketProposal ItemType = "market_proposal"
	ItemNewAsset       ItemType = "new_asset"
	ItemNetworkChange  ItemType = "network_change"
	ItemMarketChange   ItemType = "market_change"
	ItemNetworkReset   ItemType = "network_reset"
	ItemMarketStatus   ItemType = "market_status"
)

// NewsItem is one dated entry in the news feed. Items are immutable once
// created; the only list-level mutation is trimming old entries.
type NewsItem struct {
	Timestamp time.Time `json:"timestamp"`
	Type      ItemType  `json:"type"`
	Subtype   string    `json:"subtype,omitempty"`
	Message   string    `json:"message"`
	URL       string    `json:"url,omitempty"`
}
