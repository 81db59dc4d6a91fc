package domain

// PriceAction classifies the direction of a price move over a bucket.
type PriceAction string

const (
	ActionGainer   PriceAction = "gainer"
	ActionLoser    PriceAction = "loser"
	ActionNoChange PriceAction = "no_change"
)

// PriceSummary is a single aggregated candle enriched with the fractional
// change over the bucket and its gainer/loser classification.
type PriceSummary struct {
	Candle
	Change float64     `json:"change"`
	Action PriceAction `json:"action"`
}

// TickerEntry is the served view of one market: metadata plus the current
// price summary and, optionally, a closes-only price history
// (oldest to newest). PriceData is nil when the market has no recent
// candles; that is a normal outcome, not an error.
type TickerEntry struct {
	ID        string        `json:"id"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Status    MarketState   `json:"status"`
	PriceData *PriceSummary `json:"price_data,omitempty"`
	History   []float64     `json:"history,omitempty"`
}
