// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"staffbot/core/database"
	"staffbot/core/logger"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// SheetConfig identifies one spreadsheet tab of the roster export.
type SheetConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	GID           int    `yaml:"gid"`
}

// RosterConfig describes the spreadsheet exports the directory is mirrored
// from and how often the mirror runs.
type RosterConfig struct {
	Operators     SheetConfig `yaml:"operators"`
	Consultants   SheetConfig `yaml:"consultants"`
	Phones        SheetConfig `yaml:"phones"`
	OperatorsRent SheetConfig `yaml:"operators_rent"`

	FixedRolesPath      string `yaml:"fixed_roles_path" envconfig:"FIXED_ROLES_PATH"`
	SyncIntervalMinutes int    `yaml:"sync_interval_minutes" envconfig:"ROSTER_SYNC_INTERVAL_MINUTES"`
}

// BalanceConfig holds the card balance API settings.
type BalanceConfig struct {
	URL            string `yaml:"url" envconfig:"BALANCE_API_URL"`
	APIKey         string `yaml:"api_key" envconfig:"BALANCE_API_KEY"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"BALANCE_API_TIMEOUT_SECONDS"`
}

// DirectoryConfig tunes principal resolution.
type DirectoryConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" envconfig:"DIRECTORY_CACHE_TTL_SECONDS"`
}

// ContentConfig points at the static content assets.
type ContentConfig struct {
	TextDir  string `yaml:"text_dir" envconfig:"CONTENT_TEXT_DIR"`
	ImageDir string `yaml:"image_dir" envconfig:"CONTENT_IMAGE_DIR"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates the application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   logger.Config   `yaml:"logging"`
	Database  database.Config `yaml:"database"`
	Roster    RosterConfig    `yaml:"roster"`
	Balance   BalanceConfig   `yaml:"balance"`
	Directory DirectoryConfig `yaml:"directory"`
	Content   ContentConfig   `yaml:"content"`
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

// Normalize performs basic validation of required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
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

	if strings.TrimSpace(cfg.Balance.URL) == "" {
		return fmt.Errorf("balance.url is required")
	}
	if cfg.Balance.TimeoutSeconds <= 0 {
		cfg.Balance.TimeoutSeconds = 10
	}
	if cfg.Directory.CacheTTLSeconds <= 0 {
		cfg.Directory.CacheTTLSeconds = 30
	}
	if cfg.Roster.SyncIntervalMinutes <= 0 {
		cfg.Roster.SyncIntervalMinutes = 10
	}
	if strings.TrimSpace(cfg.Content.TextDir) == "" {
		cfg.Content.TextDir = "assets/text_blocks"
	}
	if strings.TrimSpace(cfg.Content.ImageDir) == "" {
		cfg.Content.ImageDir = "assets/img"
	}
	return nil
}

// BalanceTimeout returns the bounded timeout for balance API calls.
func (c *Config) BalanceTimeout() time.Duration {
	return time.Duration(c.Balance.TimeoutSeconds) * time.Second
}

// DirectoryCacheTTL returns the TTL of the resolve cache.
func (c *Config) DirectoryCacheTTL() time.Duration {
	return time.Duration(c.Directory.CacheTTLSeconds) * time.Second
}

// SyncInterval returns the period of the roster mirror task.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Roster.SyncIntervalMinutes) * time.Minute
}
