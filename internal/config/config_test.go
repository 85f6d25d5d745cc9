package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "data/quota_state.json", cfg.Store.FilePath)
	assert.Equal(t, "signaldesk:", cfg.Store.Redis.Prefix)
	assert.Equal(t, 12*time.Hour, cfg.Quota.ResetInterval)
	assert.Equal(t, "0 * * * * *", cfg.Quota.CheckCron)
	assert.Equal(t, "2741520", cfg.Quota.EliteCode)
	assert.Equal(t, "1448135", cfg.Quota.VIPCode)
	assert.True(t, cfg.Quota.AllowManualReset)
	assert.Equal(t, 500, cfg.Ledger.MaxEntries)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, DefaultAssets, cfg.Assets)
	assert.Equal(t, DefaultTimeframes, cfg.Timeframes)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "token"
  chat_id: "42"
log:
  level: debug
  format: json
store:
  driver: sqlite
  sqlite_path: /tmp/desk.db
quota:
  reset_interval: 6h
  allow_manual_reset: false
assets:
  - id: eurusd
    symbol: EUR/USD
    change: "+0,40%"
timeframes: [1M, 5M]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/desk.db", cfg.Store.SQLitePath)
	assert.Equal(t, 6*time.Hour, cfg.Quota.ResetInterval)
	assert.False(t, cfg.Quota.AllowManualReset)
	assert.Equal(t, "2741520", cfg.Quota.EliteCode, "unset fields keep their defaults")
	require.Len(t, cfg.Assets, 1)
	assert.Equal(t, "EUR/USD", cfg.Assets[0].Symbol)
	assert.Equal(t, []string{"1M", "5M"}, cfg.Timeframes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "telegram:\n  bot_token: from-file\n  chat_id: \"1\"\n")
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("VIP_CODE", "vip")
	t.Setenv("METRICS_LISTEN", ":9102")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "1", cfg.Telegram.ChatID)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "redis:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, "vip", cfg.Quota.VIPCode)
	assert.Equal(t, ":9102", cfg.Metrics.Listen)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [unterminated"))
	assert.Error(t, err)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(writeConfig(t, "telegram:\n  bot_token: t\n  chat_id: c\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }},
		{"missing chat", func(c *Config) { c.Telegram.ChatID = "" }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero interval", func(c *Config) { c.Quota.ResetInterval = 0 }},
		{"same codes", func(c *Config) { c.Quota.VIPCode = c.Quota.EliteCode }},
		{"empty elite code", func(c *Config) { c.Quota.EliteCode = "" }},
		{"bad cron", func(c *Config) { c.Quota.CheckCron = "every minute" }},
		{"negative ledger cap", func(c *Config) { c.Ledger.MaxEntries = -1 }},
		{"no assets", func(c *Config) { c.Assets = nil }},
		{"no timeframes", func(c *Config) { c.Timeframes = nil }},
		{"asset without symbol", func(c *Config) { c.Assets[0].Symbol = "" }},
		{"duplicate asset", func(c *Config) {
			dup := c.Assets[0]
			dup.ID = "EURUSD"
			c.Assets = append(c.Assets, dup)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFindAsset(t *testing.T) {
	cfg := validConfig(t)

	a, ok := cfg.FindAsset("EURUSD")
	require.True(t, ok)
	assert.Equal(t, "eurusd", a.ID)

	a, ok = cfg.FindAsset(" btc/usd ")
	require.True(t, ok)
	assert.Equal(t, "btcusd", a.ID)

	_, ok = cfg.FindAsset("doge")
	assert.False(t, ok)
}

func TestFindTimeframe(t *testing.T) {
	cfg := validConfig(t)

	tf, ok := cfg.FindTimeframe("1m")
	require.True(t, ok)
	assert.Equal(t, "1M", tf)

	_, ok = cfg.FindTimeframe("4H")
	assert.False(t, ok)
}
