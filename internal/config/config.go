// Package config defines the top-level configuration for the ticker service
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TICKER_* environment
// variables.
type Config struct {
	Node     NodeConfig    `toml:"node"`
	Refresh  RefreshConfig `toml:"refresh"`
	Ticker   TickerConfig  `toml:"ticker"`
	News     NewsConfig    `toml:"news"`
	Cache    CacheConfig   `toml:"cache"`
	Server   ServerConfig  `toml:"server"`
	Notify   NotifyConfig  `toml:"notify"`
	Console  ConsoleConfig `toml:"console"`
	LogLevel string        `toml:"log_level"`
}

// NodeConfig holds the upstream data-node API parameters.
type NodeConfig struct {
	URL            string   `toml:"url"`
	RequestTimeout duration `toml:"request_timeout"`
}

// RefreshConfig controls the background snapshot refresh cycle.
type RefreshConfig struct {
	Interval            duration `toml:"interval"`
	MaxConcurrent       int      `toml:"max_concurrent"`
	ExcludeMarketStates []string `toml:"exclude_market_states"`
}

// ExcludedStates returns the exclusion set as a lookup map.
func (r RefreshConfig) ExcludedStates() map[domain.MarketState]bool {
	out := make(map[domain.MarketState]bool, len(r.ExcludeMarketStates))
	for _, s := range r.ExcludeMarketStates {
		out[domain.MarketState(strings.TrimSpace(s))] = true
	}
	return out
}

// TickerConfig controls price change and history computation.
type TickerConfig struct {
	// ChangeWindow is the lookback over which the headline change figure
	// is computed; the change interval is the coarsest candle interval
	// that fits inside it.
	ChangeWindow duration `toml:"change_window"`
	// HistoryWindow is the lookback for the closes-only history series.
	// Falls back to ChangeWindow when zero.
	HistoryWindow      duration `toml:"history_window"`
	HistoryGranularity string   `toml:"history_granularity"`
	HistoryStep        int      `toml:"history_step"`
}

// ChangeInterval returns the candle interval used for the headline change
// bucket.
func (t TickerConfig) ChangeInterval() domain.Interval {
	return domain.IntervalFor(t.ChangeWindow.Duration)
}

// HistoryLookback returns the effective history window.
func (t TickerConfig) HistoryLookback() time.Duration {
	if t.HistoryWindow.Duration > 0 {
		return t.HistoryWindow.Duration
	}
	return t.ChangeWindow.Duration
}

// NewsConfig controls news feed retention.
type NewsConfig struct {
	// MinItems is the floor below which the feed is never trimmed.
	MinItems int `toml:"min_items"`
	// SafeAge protects items younger than this from trimming.
	SafeAge duration `toml:"safe_age"`
}

// CacheConfig controls the per-query result caches.
type CacheConfig struct {
	// Backend selects the cache implementation: "memory" or "redis".
	Backend   string      `toml:"backend"`
	Size      int         `toml:"size"`
	MarketTTL duration    `toml:"market_ttl"`
	NewsTTL   duration    `toml:"news_ttl"`
	StatsTTL  duration    `toml:"stats_ttl"`
	Redis     RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection parameters for the redis cache backend.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials. All channels are
// optional; notifications are disabled when none is configured.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// ConsoleConfig holds root URLs of the companion web properties used to
// build deep links on news items.
type ConsoleConfig struct {
	ConsoleURL    string `toml:"console_url"`
	GovernanceURL string `toml:"governance_url"`
	ExplorerURL   string `toml:"explorer_url"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Node: NodeConfig{
			URL:            "",
			RequestTimeout: duration{10 * time.Second},
		},
		Refresh: RefreshConfig{
			Interval:      duration{30 * time.Second},
			MaxConcurrent: 8,
			ExcludeMarketStates: []string{
				string(domain.MarketStateSettled),
				string(domain.MarketStateRejected),
				string(domain.MarketStateCancelled),
			},
		},
		Ticker: TickerConfig{
			ChangeWindow:       duration{24 * time.Hour},
			HistoryWindow:      duration{24 * time.Hour},
			HistoryGranularity: string(domain.Interval15M),
			HistoryStep:        4,
		},
		News: NewsConfig{
			MinItems: 10,
			SafeAge:  duration{7 * 24 * time.Hour},
		},
		Cache: CacheConfig{
			Backend:   "memory",
			Size:      1024,
			MarketTTL: duration{10 * time.Second},
			NewsTTL:   duration{30 * time.Second},
			StatsTTL:  duration{5 * time.Second},
			Redis: RedisConfig{
				Addr:       "localhost:6379",
				DB:         0,
				PoolSize:   10,
				MaxRetries: 3,
			},
		},
		Server: ServerConfig{
			Port:        8000,
			CORSOrigins: []string{"*"},
		},
		Notify: NotifyConfig{
			Events: []string{"market_status", "market_proposal"},
		},
		Console: ConsoleConfig{
			ConsoleURL:    "https://console.fairground.wtf",
			GovernanceURL: "https://token.fairground.wtf",
			ExplorerURL:   "https://explorer.fairground.wtf",
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validCacheBackends enumerates the accepted values for CacheConfig.Backend.
var validCacheBackends = map[string]bool{
	"memory": true,
	"redis":  true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Node
	if strings.TrimSpace(c.Node.URL) == "" {
		errs = append(errs, "node: url must not be empty")
	}
	if c.Node.RequestTimeout.Duration <= 0 {
		errs = append(errs, "node: request_timeout must be positive")
	}

	// Refresh
	if c.Refresh.Interval.Duration <= 0 {
		errs = append(errs, "refresh: interval must be positive")
	}
	if c.Refresh.MaxConcurrent < 1 {
		errs = append(errs, "refresh: max_concurrent must be >= 1")
	}

	// Ticker
	if c.Ticker.ChangeWindow.Duration < time.Minute {
		errs = append(errs, "ticker: change_window must be at least one minute")
	}
	if !domain.Interval(c.Ticker.HistoryGranularity).Valid() {
		errs = append(errs, fmt.Sprintf("ticker: unknown history_granularity %q", c.Ticker.HistoryGranularity))
	}
	if c.Ticker.HistoryStep < 1 {
		errs = append(errs, "ticker: history_step must be >= 1")
	}

	// News
	if c.News.MinItems < 0 {
		errs = append(errs, "news: min_items must be >= 0")
	}
	if c.News.SafeAge.Duration <= 0 {
		errs = append(errs, "news: safe_age must be positive")
	}

	// Cache
	if !validCacheBackends[strings.ToLower(c.Cache.Backend)] {
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis)", c.Cache.Backend))
	}
	if c.Cache.Size < 1 {
		errs = append(errs, "cache: size must be >= 1")
	}
	if c.Cache.MarketTTL.Duration <= 0 || c.Cache.NewsTTL.Duration <= 0 || c.Cache.StatsTTL.Duration <= 0 {
		errs = append(errs, "cache: market_ttl, news_ttl, and stats_ttl must all be positive")
	}
	if strings.EqualFold(c.Cache.Backend, "redis") {
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, "cache: redis.addr must not be empty for the redis backend")
		}
		if c.Cache.Redis.PoolSize < 1 {
			errs = append(errs, "cache: redis.pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	// Notify: Telegram needs both the token and the chat id.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
