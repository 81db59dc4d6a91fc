// Package news builds the chronological news feed from independent
// producers scanning upstream state: live market data (auctions), market
// lifecycle transitions, and governance proposals.
package news

import (
	"context"
	"sort"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// Producer is the capability shared by all news sources: scan upstream
// state and emit zero or more dated items. Producers degrade their own
// scope on upstream failure; a returned error marks the whole source as
// unavailable for this cycle.
type Producer interface {
	Name() string
	Produce(ctx context.Context) ([]domain.NewsItem, error)
}

// Merge concatenates items from all sources, sorts them ascending by
// timestamp, and trims the oldest entries: an item is dropped only while
// the feed holds more than minItems and the item is older than safeAge
// relative to now. The feed is never trimmed below minItems and an item
// younger than safeAge is never dropped.
func Merge(batches [][]domain.NewsItem, now time.Time, minItems int, safeAge time.Duration) []domain.NewsItem {
	var merged []domain.NewsItem
	for _, b := range batches {
		merged = append(merged, b...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	cutoff := now.Add(-safeAge)
	for len(merged) > minItems && merged[0].Timestamp.Before(cutoff) {
		merged = merged[1:]
	}
	return merged
}
