package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Node.URL = "https://node.test"
	return &cfg
}

func TestValidate(t *testing.T) {
	t.Run("defaults plus node url are valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing node url", func(t *testing.T) {
		cfg := Defaults()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node: url")
	})

	t.Run("collects all failures", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogLevel = "loud"
		cfg.Refresh.MaxConcurrent = 0
		cfg.Ticker.HistoryGranularity = "INTERVAL_BOGUS"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_level")
		assert.Contains(t, err.Error(), "max_concurrent")
		assert.Contains(t, err.Error(), "history_granularity")
	})

	t.Run("redis backend needs an address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Backend = "redis"
		cfg.Cache.Redis.Addr = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.addr")
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Backend = "memcached"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Refresh.Interval.Duration)
		assert.Equal(t, 8000, cfg.Server.Port)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
log_level = "debug"

[node]
url = "https://node.test"
request_timeout = "5s"

[refresh]
interval = "1m"
exclude_market_states = ["STATE_SETTLED"]

[ticker]
change_window = "12h"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "https://node.test", cfg.Node.URL)
		assert.Equal(t, 5*time.Second, cfg.Node.RequestTimeout.Duration)
		assert.Equal(t, time.Minute, cfg.Refresh.Interval.Duration)
		assert.Equal(t, []string{"STATE_SETTLED"}, cfg.Refresh.ExcludeMarketStates)
		assert.Equal(t, 12*time.Hour, cfg.Ticker.ChangeWindow.Duration)

		// Untouched sections keep their defaults.
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, 10, cfg.News.MinItems)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("TICKER_NODE_URL", "https://env.test")
		t.Setenv("TICKER_REFRESH_MAX_CONCURRENT", "3")
		t.Setenv("TICKER_REFRESH_EXCLUDE_MARKET_STATES", "STATE_SETTLED, STATE_REJECTED")
		t.Setenv("TICKER_CACHE_MARKET_TTL", "15s")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, "https://env.test", cfg.Node.URL)
		assert.Equal(t, 3, cfg.Refresh.MaxConcurrent)
		assert.Equal(t, []string{"STATE_SETTLED", "STATE_REJECTED"}, cfg.Refresh.ExcludeMarketStates)
		assert.Equal(t, 15*time.Second, cfg.Cache.MarketTTL.Duration)
	})
}

func TestDerivedSettings(t *testing.T) {
	t.Run("excluded states lookup", func(t *testing.T) {
		r := RefreshConfig{ExcludeMarketStates: []string{"STATE_SETTLED", " STATE_REJECTED "}}
		states := r.ExcludedStates()
		assert.True(t, states[domain.MarketStateSettled])
		assert.True(t, states[domain.MarketStateRejected])
		assert.False(t, states[domain.MarketStateActive])
	})

	t.Run("change interval tracks window", func(t *testing.T) {
		tc := TickerConfig{ChangeWindow: duration{24 * time.Hour}}
		assert.Equal(t, domain.Interval1D, tc.ChangeInterval())

		tc.ChangeWindow = duration{90 * time.Minute}
		assert.Equal(t, domain.Interval1H, tc.ChangeInterval())
	})

	t.Run("history lookback falls back to change window", func(t *testing.T) {
		tc := TickerConfig{ChangeWindow: duration{24 * time.Hour}}
		assert.Equal(t, 24*time.Hour, tc.HistoryLookback())

		tc.HistoryWindow = duration{6 * time.Hour}
		assert.Equal(t, 6*time.Hour, tc.HistoryLookback())
	})
}
