package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vegaprotocol/ticker-service/internal/cache/memory"
	"github.com/vegaprotocol/ticker-service/internal/cache/redis"
	"github.com/vegaprotocol/ticker-service/internal/candles"
	"github.com/vegaprotocol/ticker-service/internal/config"
	"github.com/vegaprotocol/ticker-service/internal/consoleurl"
	"github.com/vegaprotocol/ticker-service/internal/domain"
	"github.com/vegaprotocol/ticker-service/internal/news"
	"github.com/vegaprotocol/ticker-service/internal/notify"
	"github.com/vegaprotocol/ticker-service/internal/platform/veganode"
	"github.com/vegaprotocol/ticker-service/internal/ticker"
)

// Dependencies bundles everything the application needs to serve. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Node      *veganode.Client
	Refresher *ticker.Refresher
	Service   *ticker.Service
	Notifier  *notify.Notifier
	Clock     domain.Clock
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	clock := domain.SystemClock{}

	node := veganode.New(cfg.Node.URL, cfg.Node.RequestTimeout.Duration)

	urls := consoleurl.New(
		cfg.Console.ConsoleURL,
		cfg.Console.GovernanceURL,
		cfg.Console.ExplorerURL,
	)

	fetcher := candles.NewFetcher(node, clock, logger)

	producers := []news.Producer{
		news.NewAuctionMonitor(node, urls, logger),
		news.NewLifecycleMonitor(node, urls, clock, logger),
		news.NewProposalMonitor(node, urls, clock, logger),
	}

	notifier := buildNotifier(cfg.Notify, logger)

	var announcer ticker.Announcer
	if notifier != nil {
		announcer = notifier
	}

	refresher := ticker.NewRefresher(
		ticker.RefreshConfig{
			Interval:           cfg.Refresh.Interval.Duration,
			MaxConcurrent:      cfg.Refresh.MaxConcurrent,
			ExcludedStates:     cfg.Refresh.ExcludedStates(),
			ChangeWindow:       cfg.Ticker.ChangeWindow.Duration,
			ChangeInterval:     cfg.Ticker.ChangeInterval(),
			HistoryWindow:      cfg.Ticker.HistoryLookback(),
			HistoryGranularity: domain.Interval(cfg.Ticker.HistoryGranularity),
			HistoryStep:        cfg.Ticker.HistoryStep,
			NewsMinItems:       cfg.News.MinItems,
			NewsSafeAge:        cfg.News.SafeAge.Duration,
		},
		node,
		fetcher,
		producers,
		announcer,
		clock,
		logger,
	)

	queryCache, err := buildQueryCache(ctx, cfg.Cache, clock, &closers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	service := ticker.NewService(refresher, queryCache, ticker.CacheTTLs{
		Market: cfg.Cache.MarketTTL.Duration,
		News:   cfg.Cache.NewsTTL.Duration,
		Stats:  cfg.Cache.StatsTTL.Duration,
	}, logger)

	return &Dependencies{
		Node:      node,
		Refresher: refresher,
		Service:   service,
		Notifier:  notifier,
		Clock:     clock,
	}, cleanup, nil
}

// buildQueryCache selects the query cache backend from configuration.
func buildQueryCache(ctx context.Context, cfg config.CacheConfig, clock domain.Clock, closers *[]func()) (domain.QueryCache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return memory.New(cfg.Size, clock), nil
	case "redis":
		client, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("app: connect redis: %w", err)
		}
		*closers = append(*closers, func() { client.Close() })
		return redis.NewQueryCache(client), nil
	default:
		return nil, fmt.Errorf("app: unsupported cache backend %q", cfg.Backend)
	}
}

// buildNotifier assembles notification senders from configuration. Returns
// nil when no channel is configured so callers can skip announcements
// entirely.
func buildNotifier(cfg config.NotifyConfig, logger *slog.Logger) *notify.Notifier {
	var senders []notify.Sender

	if cfg.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.DiscordWebhookURL))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID))
	}

	if len(senders) == 0 {
		return nil
	}
	return notify.NewNotifier(senders, cfg.Events, logger)
}
