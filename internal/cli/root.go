package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/price-guardian/internal/config"
	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
	"github.com/ogulcanaydogan/price-guardian/pkg/monitor"
	"github.com/ogulcanaydogan/price-guardian/pkg/scraper"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	cfgFile     string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "priceguard",
	Short: "Price Guardian - product price monitor with chat alerts",
	Long: `Price Guardian checks a catalog of product pages once, reads the price
each page publishes, and sends a chat alert for every product at or below
its target price. Schedule it with cron or a CI workflow for periodic checks.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.priceguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "product catalog file (overrides catalog.path)")
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	return cfg, nil
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initScraper creates the page scraper from config.
func initScraper(cfg *config.Config) *scraper.Scraper {
	return scraper.New(scraper.Options{
		Timeout:          cfg.Scraper.Timeout,
		UserAgent:        cfg.Scraper.UserAgent,
		Selector:         cfg.Scraper.Selector,
		Attribute:        cfg.Scraper.Attribute,
		CloudflareBypass: cfg.Scraper.CloudflareBypass,
	})
}

// initNotifiers creates alert notifiers from config. Dry runs only log.
func initNotifiers(cfg *config.Config, logger *slog.Logger, dryRun bool) []alerts.Notifier {
	if dryRun {
		return []alerts.Notifier{alerts.NewLogNotifier(logger)}
	}

	notifiers := []alerts.Notifier{
		alerts.NewTelegramNotifier(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.ChatID),
	}

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}

// initMonitor creates a fully wired monitor.
func initMonitor(cfg *config.Config, logger *slog.Logger, dryRun bool) *monitor.Monitor {
	return monitor.New(
		initScraper(cfg),
		initNotifiers(cfg, logger, dryRun),
		monitor.Options{Delay: cfg.Monitor.Delay, Currency: cfg.Alerts.Currency},
		logger,
	)
}
