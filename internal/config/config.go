package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"SignalDesk/internal/model"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required"`
		ChatID   string `yaml:"chat_id" validate:"required"`
	} `yaml:"telegram"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Quota   QuotaConfig   `yaml:"quota"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Metrics MetricsConfig `yaml:"metrics"`

	Assets     []model.Asset `yaml:"assets" validate:"min=1,dive"`
	Timeframes []string      `yaml:"timeframes" validate:"min=1,dive,required"`
	Proxy      string        `yaml:"proxy"`
}

// LogConfig configures the zerolog output.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stdout" validate:"required"`
}

// StoreConfig selects the key-value backend holding the quota state.
type StoreConfig struct {
	Driver     string `yaml:"driver" default:"file" validate:"oneof=file sqlite redis badger memory"`
	FilePath   string `yaml:"file_path" default:"data/quota_state.json"`
	SQLitePath string `yaml:"sqlite_path" default:"data/signal_desk.db"`
	BadgerDir  string `yaml:"badger_dir" default:"data/badger"`
	Redis      struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		Prefix   string `yaml:"prefix" default:"signaldesk:"`
	} `yaml:"redis"`
}

// QuotaConfig holds the quota cycle and the unlock secrets.
type QuotaConfig struct {
	ResetInterval    time.Duration `yaml:"reset_interval" default:"12h" validate:"gt=0"`
	CheckCron        string        `yaml:"check_cron" default:"0 * * * * *"`
	EliteCode        string        `yaml:"elite_code" default:"2741520" validate:"required"`
	VIPCode          string        `yaml:"vip_code" default:"1448135" validate:"required,nefield=EliteCode"`
	AllowManualReset bool          `yaml:"allow_manual_reset" default:"true"`
}

// LedgerConfig bounds the in-memory signal history. Zero means no cap.
type LedgerConfig struct {
	MaxEntries int `yaml:"max_entries" default:"500" validate:"gte=0"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path" default:"/metrics"`
}

// DefaultAssets is used when the config file lists none.
var DefaultAssets = []model.Asset{
	{ID: "eurusd", Symbol: "EUR/USD", Change: "+0,12%"},
	{ID: "gbpusd", Symbol: "GBP/USD", Change: "-0,08%"},
	{ID: "usdjpy", Symbol: "USD/JPY", Change: "+0,31%"},
	{ID: "btcusd", Symbol: "BTC/USD", Change: "+2,45%"},
	{ID: "ethusd", Symbol: "ETH/USD", Change: "-1,17%"},
	{ID: "xauusd", Symbol: "XAU/USD", Change: "+0,64%"},
}

// DefaultTimeframes is used when the config file lists none.
var DefaultTimeframes = []string{"5S", "15S", "30S", "1M", "3M", "5M"}

var validate = validator.New()

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = db
		}
	}
	if v := os.Getenv("ELITE_CODE"); v != "" {
		cfg.Quota.EliteCode = v
	}
	if v := os.Getenv("VIP_CODE"); v != "" {
		cfg.Quota.VIPCode = v
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	if len(cfg.Assets) == 0 {
		cfg.Assets = append([]model.Asset(nil), DefaultAssets...)
	}
	if len(cfg.Timeframes) == 0 {
		cfg.Timeframes = append([]string(nil), DefaultTimeframes...)
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		id := strings.ToLower(a.ID)
		if seen[id] {
			return fmt.Errorf("assets: duplicate id %q", a.ID)
		}
		seen[id] = true
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Quota.CheckCron); err != nil {
		return fmt.Errorf("quota.check_cron: %w", err)
	}
	return nil
}

// FindAsset looks up a catalog asset by id or display symbol, case-insensitively.
func (c *Config) FindAsset(key string) (model.Asset, bool) {
	key = strings.TrimSpace(key)
	for _, a := range c.Assets {
		if strings.EqualFold(a.ID, key) || strings.EqualFold(a.Symbol, key) {
			return a, true
		}
	}
	return model.Asset{}, false
}

// FindTimeframe returns the configured spelling of a timeframe label.
func (c *Config) FindTimeframe(label string) (string, bool) {
	for _, tf := range c.Timeframes {
		if strings.EqualFold(tf, strings.TrimSpace(label)) {
			return tf, true
		}
	}
	return "", false
}
