package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is the atomically-published cache of everything the service
// serves, produced by one refresh cycle. All fields come from the same
// cycle; a snapshot is never mutated after publication, only superseded.
type Snapshot struct {
	Markets   map[string]Market
	Summaries map[string]PriceSummary
	Histories map[string][]float64
	News      []NewsItem
	Stats     json.RawMessage
	FetchedAt time.Time
}
