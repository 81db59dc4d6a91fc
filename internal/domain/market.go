package domain

import "time"

// MarketState is the lifecycle state of a market as reported by the node.
// Values mirror the upstream API enum.
type MarketState string

const (
	MarketStateProposed          MarketState = "STATE_PROPOSED"
	MarketStatePending           MarketState = "STATE_PENDING"
	MarketStateActive            MarketState = "STATE_ACTIVE"
	MarketStateSuspended         MarketState = "STATE_SUSPENDED"
	MarketStateClosed            MarketState = "STATE_CLOSED"
	MarketStateTradingTerminated MarketState = "STATE_TRADING_TERMINATED"
	MarketStateSettled           MarketState = "STATE_SETTLED"
	MarketStateRejected          MarketState = "STATE_REJECTED"
	MarketStateCancelled         MarketState = "STATE_CANCELLED"
)

// Market is one tradable market on the network. Instances are immutable per
// refresh cycle and replaced wholesale when a new snapshot is published.
type Market struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	State         MarketState `json:"state"`
	DecimalPlaces int         `json:"decimalPlaces"`

	// Lifecycle timestamps; zero when the market has not reached the stage.
	PendingAt time.Time `json:"pendingAt,omitzero"`
	OpenAt    time.Time `json:"openAt,omitzero"`
	CloseAt   time.Time `json:"closeAt,omitzero"`
}

// AuctionTrigger identifies why a market is currently in auction mode.
type AuctionTrigger string

const (
	AuctionTriggerUnspecified AuctionTrigger = "AUCTION_TRIGGER_UNSPECIFIED"
	AuctionTriggerLiquidity   AuctionTrigger = "AUCTION_TRIGGER_LIQUIDITY"
	AuctionTriggerPrice       AuctionTrigger = "AUCTION_TRIGGER_PRICE"
)

// MarketData is the live trading state of a market, cross-referenced with
// Market metadata by the auction news producer.
type MarketData struct {
	MarketID     string
	MarkPrice    float64
	AuctionStart time.Time // zero when the market is not in auction
	Trigger      AuctionTrigger
}
