// Package ticker owns the in-memory snapshot of served market data: a
// background refresher that rebuilds it on an interval, and the read-only
// query facade the HTTP layer calls.
package ticker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vegaprotocol/ticker-service/internal/candles"
	"github.com/vegaprotocol/ticker-service/internal/domain"
	"github.com/vegaprotocol/ticker-service/internal/news"
)

// nodeAPI is what the refresher needs from the node client beyond candles.
type nodeAPI interface {
	ListMarkets(ctx context.Context) ([]domain.Market, error)
	Statistics(ctx context.Context) (json.RawMessage, error)
}

// Announcer receives items that were not in the previous snapshot's feed.
type Announcer interface {
	Announce(ctx context.Context, items []domain.NewsItem)
}

// RefreshConfig holds the refresher's tuning parameters.
type RefreshConfig struct {
	Interval       time.Duration
	MaxConcurrent  int
	ExcludedStates map[domain.MarketState]bool

	ChangeWindow   time.Duration
	ChangeInterval domain.Interval

	HistoryWindow      time.Duration
	HistoryGranularity domain.Interval
	HistoryStep        int

	NewsMinItems int
	NewsSafeAge  time.Duration
}

// Refresher rebuilds the snapshot on a fixed interval and publishes it
// atomically. Cycles are serialized: a slow cycle delays the next tick
// rather than overlapping it. A failed cycle leaves the previous snapshot
// untouched and authoritative.
type Refresher struct {
	cfg       RefreshConfig
	node      nodeAPI
	fetcher   *candles.Fetcher
	producers []news.Producer
	announcer Announcer // may be nil
	clock     domain.Clock
	logger    *slog.Logger

	current atomic.Pointer[domain.Snapshot]
}

// NewRefresher creates a Refresher. announcer may be nil to disable
// notifications.
func NewRefresher(
	cfg RefreshConfig,
	node nodeAPI,
	fetcher *candles.Fetcher,
	producers []news.Producer,
	announcer Announcer,
	clock domain.Clock,
	logger *slog.Logger,
) *Refresher {
	return &Refresher{
		cfg:       cfg,
		node:      node,
		fetcher:   fetcher,
		producers: producers,
		announcer: announcer,
		clock:     clock,
		logger:    logger.With(slog.String("component", "refresher")),
	}
}

// Snapshot returns the currently published snapshot, or nil before the
// first successful refresh.
func (r *Refresher) Snapshot() *domain.Snapshot {
	return r.current.Load()
}

// Run drives the refresh cycle until ctx is cancelled. The caller is
// expected to have run one synchronous Refresh first so the service never
// answers queries without a snapshot.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.ErrorContext(ctx, "refresh cycle failed, keeping previous snapshot",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Refresh runs one full cycle: markets, per-market prices, news, and
// statistics, then publishes the assembled snapshot. An error means
// nothing was published.
func (r *Refresher) Refresh(ctx context.Context) error {
	started := r.clock.Now()

	allMarkets, err := r.node.ListMarkets(ctx)
	if err != nil {
		return fmt.Errorf("refresh: list markets: %w", err)
	}

	markets := make(map[string]domain.Market, len(allMarkets))
	for _, m := range allMarkets {
		if r.cfg.ExcludedStates[m.State] {
			continue
		}
		markets[m.ID] = m
	}

	summaries, histories := r.collectPrices(ctx, markets)
	items := r.collectNews(ctx)

	stats, err := r.node.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("refresh: statistics: %w", err)
	}

	snap := &domain.Snapshot{
		Markets:   markets,
		Summaries: summaries,
		Histories: histories,
		News:      items,
		Stats:     stats,
		FetchedAt: started,
	}
	prev := r.current.Swap(snap)

	r.logger.InfoContext(ctx, "refresh complete",
		slog.Int("markets", len(markets)),
		slog.Int("summaries", len(summaries)),
		slog.Int("news", len(items)),
		slog.Duration("took", r.clock.Now().Sub(started)),
	)

	if r.announcer != nil && prev != nil {
		if fresh := freshNews(prev.News, snap.News); len(fresh) > 0 {
			r.announcer.Announce(ctx, fresh)
		}
	}
	return nil
}

// collectPrices fans out over markets and computes the price summary and
// history for each. A single market's failure degrades that market to
// "absent" without affecting the rest of the cycle.
func (r *Refresher) collectPrices(ctx context.Context, markets map[string]domain.Market) (map[string]domain.PriceSummary, map[string][]float64) {
	var (
		mu        sync.Mutex
		summaries = make(map[string]domain.PriceSummary, len(markets))
		histories = make(map[string][]float64, len(markets))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxConcurrent)

	for _, mkt := range markets {
		g.Go(func() error {
			summary, history := r.marketPrices(ctx, mkt)
			mu.Lock()
			defer mu.Unlock()
			if summary != nil {
				summaries[mkt.ID] = *summary
			}
			if history != nil {
				histories[mkt.ID] = history
			}
			return nil
		})
	}
	g.Wait() // goroutines only ever return nil

	return summaries, histories
}

// marketPrices computes one market's enriched summary bucket and
// closes-only history. Either may be nil when the market has no data.
func (r *Refresher) marketPrices(ctx context.Context, mkt domain.Market) (*domain.PriceSummary, []float64) {
	var summary *domain.PriceSummary
	res := r.fetcher.Fetch(ctx, mkt.ID, r.cfg.ChangeWindow, r.cfg.ChangeInterval, mkt.DecimalPlaces)
	if res.Status == candles.StatusData {
		buckets := candles.Zip(res.Candles, 0)
		s := candles.Enrich(buckets[0])
		summary = &s
	}

	var history []float64
	res = r.fetcher.Fetch(ctx, mkt.ID, r.cfg.HistoryWindow, r.cfg.HistoryGranularity, mkt.DecimalPlaces)
	if res.Status == candles.StatusData {
		history = candles.Closes(candles.Zip(res.Candles, r.cfg.HistoryStep))
	}

	return summary, history
}

// collectNews runs every producer and merges the results. A failing
// producer contributes nothing this cycle; the others still run.
func (r *Refresher) collectNews(ctx context.Context) []domain.NewsItem {
	batches := make([][]domain.NewsItem, 0, len(r.producers))
	for _, p := range r.producers {
		items, err := p.Produce(ctx)
		if err != nil {
			r.logger.WarnContext(ctx, "news producer failed",
				slog.String("producer", p.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		batches = append(batches, items)
	}
	return news.Merge(batches, r.clock.Now(), r.cfg.NewsMinItems, r.cfg.NewsSafeAge)
}

// freshNews returns items from cur that are newer than everything in prev.
func freshNews(prev, cur []domain.NewsItem) []domain.NewsItem {
	var latest time.Time
	if n := len(prev); n > 0 {
		latest = prev[n-1].Timestamp
	}
	var fresh []domain.NewsItem
	for _, item := range cur {
		if item.Timestamp.After(latest) {
			fresh = append(fresh, item)
		}
	}
	return fresh
}
