package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// SnapshotSource supplies the current snapshot for queries.
type SnapshotSource interface {
	Snapshot() *domain.Snapshot
}

// CacheTTLs are the per-query-kind expirations of the result cache.
type CacheTTLs struct {
	Market time.Duration // ticker list, single entries, raw market list
	News   time.Duration
	Stats  time.Duration
}

// Service is the read-only query facade over the current snapshot. Each
// query kind is served through a short-lived result cache keyed by its
// arguments, so repeated identical queries between refresh cycles skip
// recomputation. Cache failures are never surfaced; the snapshot is always
// the fallback.
type Service struct {
	source SnapshotSource
	cache  domain.QueryCache
	ttls   CacheTTLs
	logger *slog.Logger
}

// NewService creates a Service. cache may be nil to disable result caching.
func NewService(source SnapshotSource, cache domain.QueryCache, ttls CacheTTLs, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ttls:   ttls,
		logger: logger.With(slog.String("component", "ticker_service")),
	}
}

// Ticker returns entries for every market with a computable price summary,
// sorted by instrument code. Markets without recent candles are omitted.
func (s *Service) Ticker(ctx context.Context, withHistory bool) ([]domain.TickerEntry, error) {
	key := fmt.Sprintf("ticker:list:history=%t", withHistory)
	if entries, ok := cacheGet[[]domain.TickerEntry](ctx, s, key); ok {
		return entries, nil
	}

	snap := s.source.Snapshot()
	if snap == nil {
		return nil, domain.ErrUnavailable
	}

	entries := make([]domain.TickerEntry, 0, len(snap.Markets))
	for _, m := range snap.Markets {
		e := buildEntry(snap, m, withHistory)
		if e.PriceData == nil {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Code != entries[j].Code {
			return entries[i].Code < entries[j].Code
		}
		return entries[i].ID < entries[j].ID
	})

	s.cachePut(ctx, key, entries, s.ttls.Market)
	return entries, nil
}

// TickerEntry returns the entry for one market. An unknown market ID
// yields domain.ErrNotFound; a known market without candle data yields an
// entry whose price fields are simply absent.
func (s *Service) TickerEntry(ctx context.Context, marketID string, withHistory bool) (domain.TickerEntry, error) {
	key := fmt.Sprintf("ticker:entry:%s:history=%t", marketID, withHistory)
	if entry, ok := cacheGet[domain.TickerEntry](ctx, s, key); ok {
		return entry, nil
	}

	snap := s.source.Snapshot()
	if snap == nil {
		return domain.TickerEntry{}, domain.ErrUnavailable
	}

	m, ok := snap.Markets[marketID]
	if !ok {
		return domain.TickerEntry{}, fmt.Errorf("market %s: %w", marketID, domain.ErrNotFound)
	}

	entry := buildEntry(snap, m, withHistory)
	s.cachePut(ctx, key, entry, s.ttls.Market)
	return entry, nil
}

// Markets returns the raw market list, sorted by instrument code.
func (s *Service) Markets(ctx context.Context) ([]domain.Market, error) {
	const key = "markets:list"
	if markets, ok := cacheGet[[]domain.Market](ctx, s, key); ok {
		return markets, nil
	}

	snap := s.source.Snapshot()
	if snap == nil {
		return nil, domain.ErrUnavailable
	}

	markets := make([]domain.Market, 0, len(snap.Markets))
	for _, m := range snap.Markets {
		markets = append(markets, m)
	}
	sort.Slice(markets, func(i, j int) bool {
		if markets[i].Code != markets[j].Code {
			return markets[i].Code < markets[j].Code
		}
		return markets[i].ID < markets[j].ID
	})

	s.cachePut(ctx, key, markets, s.ttls.Market)
	return markets, nil
}

// News returns the merged feed, oldest first.
func (s *Service) News(ctx context.Context) ([]domain.NewsItem, error) {
	const key = "news:list"
	if items, ok := cacheGet[[]domain.NewsItem](ctx, s, key); ok {
		return items, nil
	}

	snap := s.source.Snapshot()
	if snap == nil {
		return nil, domain.ErrUnavailable
	}

	s.cachePut(ctx, key, snap.News, s.ttls.News)
	return snap.News, nil
}

// Stats returns the network statistics blob from the snapshot, or
// domain.ErrUnavailable when none was captured.
func (s *Service) Stats(ctx context.Context) (json.RawMessage, error) {
	const key = "stats:blob"
	if blob, ok := cacheGet[json.RawMessage](ctx, s, key); ok {
		return blob, nil
	}

	snap := s.source.Snapshot()
	if snap == nil || len(snap.Stats) == 0 {
		return nil, domain.ErrUnavailable
	}

	s.cachePut(ctx, key, snap.Stats, s.ttls.Stats)
	return snap.Stats, nil
}

// buildEntry assembles the served view of one market from the snapshot.
func buildEntry(snap *domain.Snapshot, m domain.Market, withHistory bool) domain.TickerEntry {
	e := domain.TickerEntry{
		ID:     m.ID,
		Code:   m.Code,
		Name:   m.Name,
		Status: m.State,
	}
	if summary, ok := snap.Summaries[m.ID]; ok {
		e.PriceData = &summary
	}
	if withHistory {
		e.History = snap.Histories[m.ID]
	}
	return e
}

// cacheGet returns a decoded cache hit for key, or ok=false on miss,
// decode failure, or disabled cache.
func cacheGet[T any](ctx context.Context, s *Service, key string) (T, bool) {
	var zero T
	if s.cache == nil {
		return zero, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// cachePut stores a query result; cache write failures are logged and
// otherwise ignored.
func (s *Service) cachePut(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.WarnContext(ctx, "query cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
