package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TICKER_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load. A missing file is
// not an error so the service can run from environment variables alone.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TICKER_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject settings at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Node ──
	setStr(&cfg.Node.URL, "TICKER_NODE_URL")
	setDuration(&cfg.Node.RequestTimeout, "TICKER_NODE_REQUEST_TIMEOUT")

	// ── Refresh ──
	setDuration(&cfg.Refresh.Interval, "TICKER_REFRESH_INTERVAL")
	setInt(&cfg.Refresh.MaxConcurrent, "TICKER_REFRESH_MAX_CONCURRENT")
	setStringSlice(&cfg.Refresh.ExcludeMarketStates, "TICKER_REFRESH_EXCLUDE_MARKET_STATES")

	// ── Ticker ──
	setDuration(&cfg.Ticker.ChangeWindow, "TICKER_CHANGE_WINDOW")
	setDuration(&cfg.Ticker.HistoryWindow, "TICKER_HISTORY_WINDOW")
	setStr(&cfg.Ticker.HistoryGranularity, "TICKER_HISTORY_GRANULARITY")
	setInt(&cfg.Ticker.HistoryStep, "TICKER_HISTORY_STEP")

	// ── News ──
	setInt(&cfg.News.MinItems, "TICKER_NEWS_MIN_ITEMS")
	setDuration(&cfg.News.SafeAge, "TICKER_NEWS_SAFE_AGE")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "TICKER_CACHE_BACKEND")
	setInt(&cfg.Cache.Size, "TICKER_CACHE_SIZE")
	setDuration(&cfg.Cache.MarketTTL, "TICKER_CACHE_MARKET_TTL")
	setDuration(&cfg.Cache.NewsTTL, "TICKER_CACHE_NEWS_TTL")
	setDuration(&cfg.Cache.StatsTTL, "TICKER_CACHE_STATS_TTL")
	setStr(&cfg.Cache.Redis.Addr, "TICKER_REDIS_ADDR")
	setStr(&cfg.Cache.Redis.Password, "TICKER_REDIS_PASSWORD")
	setInt(&cfg.Cache.Redis.DB, "TICKER_REDIS_DB")
	setInt(&cfg.Cache.Redis.PoolSize, "TICKER_REDIS_POOL_SIZE")
	setInt(&cfg.Cache.Redis.MaxRetries, "TICKER_REDIS_MAX_RETRIES")
	setBool(&cfg.Cache.Redis.TLSEnabled, "TICKER_REDIS_TLS_ENABLED")

	// ── Server ──
	setInt(&cfg.Server.Port, "TICKER_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "TICKER_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "TICKER_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "TICKER_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "TICKER_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "TICKER_NOTIFY_EVENTS")

	// ── Console ──
	setStr(&cfg.Console.ConsoleURL, "TICKER_CONSOLE_URL")
	setStr(&cfg.Console.GovernanceURL, "TICKER_GOVERNANCE_URL")
	setStr(&cfg.Console.ExplorerURL, "TICKER_EXPLORER_URL")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "TICKER_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
