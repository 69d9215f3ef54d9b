package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all Price Guardian configuration.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TelegramConfig defines the bot used for price alerts.
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
	APIURL string `mapstructure:"api_url"`
}

// CatalogConfig points at the product list.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MonitorConfig defines run pacing.
type MonitorConfig struct {
	Delay time.Duration `mapstructure:"delay"`
	// Interval in seconds between scheduled runs. A single run ignores it;
	// the external scheduler owns the cadence.
	Interval int `mapstructure:"interval"`
}

// ScraperConfig defines how product pages are fetched and read.
type ScraperConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	Selector         string        `mapstructure:"selector"`
	Attribute        string        `mapstructure:"attribute"`
	CloudflareBypass bool          `mapstructure:"cloudflare_bypass"`
}

// AlertsConfig defines alerting integrations besides Telegram.
type AlertsConfig struct {
	Currency string        `mapstructure:"currency"`
	Slack    SlackConfig   `mapstructure:"slack"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the bare variable names older deployments
// export.
var legacyEnv = map[string]string{
	"telegram.token":   "TOKEN",
	"telegram.chat_id": "CHAT_ID",
	"monitor.interval": "INTERVALO",
}

// Load reads configuration from a .env file, the config file and
// environment variables, in increasing order of precedence.
func Load(cfgFile string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".priceguard"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults. Every key gets one so AutomaticEnv can see it on Unmarshal.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("catalog.path", "products.json")
	v.SetDefault("monitor.delay", "2s")
	v.SetDefault("monitor.interval", 60)
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.selector", `meta[itemprop="price"]`)
	v.SetDefault("scraper.attribute", "content")
	v.SetDefault("scraper.cloudflare_bypass", false)
	v.SetDefault("alerts.currency", "R$")
	v.SetDefault("alerts.slack.enabled", false)
	v.SetDefault("alerts.slack.webhook_url", "")
	v.SetDefault("alerts.slack.channel", "#price-alerts")
	v.SetDefault("alerts.webhook.enabled", false)
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("alerts.webhook.secret", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("PRICEGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		envKey := "PRICEGUARD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every required setting that is missing or invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.Telegram.Token == "" {
		errs = append(errs, "telegram.token (TOKEN) is required")
	}
	if c.Telegram.ChatID == "" {
		errs = append(errs, "telegram.chat_id (CHAT_ID) is required")
	}
	errs = append(errs, c.validateCommon()...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ValidateDryRun is Validate without the Telegram credentials, which a dry
// run never uses.
func (c *Config) ValidateDryRun() error {
	if errs := c.validateCommon(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) validateCommon() []string {
	var errs []string
	if c.Catalog.Path == "" {
		errs = append(errs, "catalog.path must not be empty")
	}
	if c.Monitor.Delay < 0 {
		errs = append(errs, "monitor.delay must not be negative")
	}
	if c.Scraper.Timeout < 0 {
		errs = append(errs, "scraper.timeout must not be negative")
	}
	if c.Alerts.Slack.Enabled && c.Alerts.Slack.WebhookURL == "" {
		errs = append(errs, "alerts.slack.webhook_url is required when slack is enabled")
	}
	if c.Alerts.Webhook.Enabled && c.Alerts.Webhook.URL == "" {
		errs = append(errs, "alerts.webhook.url is required when the webhook is enabled")
	}
	return errs
}
