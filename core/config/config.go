package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coredatabase "github.com/m3rciful/stickerbot/core/database"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token     string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID   int64  `yaml:"admin_id" envconfig:"ADMIN_ID"`
	AdminLink string `yaml:"admin_link" envconfig:"ADMIN_LINK"`
	RunMode   string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// DoneToken is the text customers send to submit the order once all
	// photos are attached. Matched case-insensitively.
	DoneToken string `yaml:"done_token" envconfig:"DONE_TOKEN"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// OrdersConfig selects where completed orders are persisted.
type OrdersConfig struct {
	// Backend is "csv" (append-only log file) or "postgres".
	Backend string `yaml:"backend" envconfig:"ORDERS_BACKEND"`
	CSVPath string `yaml:"csv_path" envconfig:"ORDERS_CSV_PATH"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// BackendCSV appends completed orders to a CSV log file.
	BackendCSV = "csv"
	// BackendPostgres stores completed orders in Postgres.
	BackendPostgres = "postgres"
)

// DefaultDoneToken is the completion word customers send to submit an order.
const DefaultDoneToken = "готово"

// DefaultCatalog maps sticker formats to their unit price in rubles.
var DefaultCatalog = map[string]int{
	"2.5x2.5": 55,
	"3x3":     60,
	"3x4":     70,
	"6x8":     195,
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig      `yaml:"telegram"`
	Webhook   WebhookConfig       `yaml:"webhook"`
	Logging   LoggingConfig       `yaml:"logging"`
	Orders    OrdersConfig        `yaml:"orders"`
	RateLimit RateLimitConfig     `yaml:"rate_limit"`
	Database  coredatabase.Config `yaml:"database"`
	// Catalog is the sticker format -> unit price table. Empty means
	// DefaultCatalog.
	Catalog map[string]int `yaml:"catalog"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	if strings.TrimSpace(cfg.Telegram.DoneToken) == "" {
		cfg.Telegram.DoneToken = DefaultDoneToken
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Orders.Backend))
	if backend == "" {
		backend = BackendCSV
	}
	switch backend {
	case BackendCSV:
		if strings.TrimSpace(cfg.Orders.CSVPath) == "" {
			cfg.Orders.CSVPath = "data/orders.csv"
		}
	case BackendPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("database host and name are required when orders.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid orders.backend %q; allowed: csv, postgres", cfg.Orders.Backend)
	}
	cfg.Orders.Backend = backend

	if len(cfg.Catalog) == 0 {
		cfg.Catalog = DefaultCatalog
	}
	for format, price := range cfg.Catalog {
		if strings.TrimSpace(format) == "" {
			return fmt.Errorf("catalog contains an empty format name")
		}
		if price <= 0 {
			return fmt.Errorf("catalog price for %q must be > 0", format)
		}
	}

	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}
	return nil
}
