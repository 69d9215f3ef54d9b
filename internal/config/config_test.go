package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/price-guardian/internal/config"
)

// isolate runs the test from an empty directory with no credentials in the
// environment, so a developer's .env or config.yaml cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"TOKEN", "CHAT_ID", "INTERVALO",
		"PRICEGUARD_TELEGRAM_TOKEN", "PRICEGUARD_TELEGRAM_CHAT_ID", "PRICEGUARD_MONITOR_INTERVAL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Telegram.Token)
	assert.Empty(t, cfg.Telegram.ChatID)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	assert.Equal(t, "products.json", cfg.Catalog.Path)
	assert.Equal(t, 2*time.Second, cfg.Monitor.Delay)
	assert.Equal(t, 60, cfg.Monitor.Interval)
	assert.Equal(t, 15*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, `meta[itemprop="price"]`, cfg.Scraper.Selector)
	assert.Equal(t, "content", cfg.Scraper.Attribute)
	assert.False(t, cfg.Scraper.CloudflareBypass)
	assert.Equal(t, "R$", cfg.Alerts.Currency)
	assert.False(t, cfg.Alerts.Slack.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	data := []byte(`
telegram:
  token: file-token
  chat_id: "1001"
catalog:
  path: /data/products.yaml
monitor:
  delay: 500ms
scraper:
  timeout: 5s
  cloudflare_bypass: true
alerts:
  currency: "$"
  slack:
    enabled: true
    webhook_url: https://hooks.slack.example/x
logging:
  level: debug
  format: text
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "1001", cfg.Telegram.ChatID)
	assert.Equal(t, "/data/products.yaml", cfg.Catalog.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Monitor.Delay)
	assert.Equal(t, 5*time.Second, cfg.Scraper.Timeout)
	assert.True(t, cfg.Scraper.CloudflareBypass)
	assert.Equal(t, "$", cfg.Alerts.Currency)
	assert.True(t, cfg.Alerts.Slack.Enabled)
	assert.Equal(t, "#price-alerts", cfg.Alerts.Slack.Channel)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ConfigInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("catalog:\n  path: here.json\n"), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "here.json", cfg.Catalog.Path)
}

func TestLoad_LegacyEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TOKEN", "legacy-token")
	t.Setenv("CHAT_ID", "-100200")
	t.Setenv("INTERVALO", "300")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-token", cfg.Telegram.Token)
	assert.Equal(t, "-100200", cfg.Telegram.ChatID)
	assert.Equal(t, 300, cfg.Monitor.Interval)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	isolate(t)
	t.Setenv("TOKEN", "legacy-token")
	t.Setenv("PRICEGUARD_TELEGRAM_TOKEN", "new-token")
	t.Setenv("PRICEGUARD_CATALOG_PATH", "env.json")
	t.Setenv("PRICEGUARD_MONITOR_DELAY", "3s")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "new-token", cfg.Telegram.Token)
	assert.Equal(t, "env.json", cfg.Catalog.Path)
	assert.Equal(t, 3*time.Second, cfg.Monitor.Delay)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN=dotenv-token\nCHAT_ID=7\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv("TOKEN")
		_ = os.Unsetenv("CHAT_ID")
	})

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "dotenv-token", cfg.Telegram.Token)
	assert.Equal(t, "7", cfg.Telegram.ChatID)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("telegram: [unclosed"), 0o644))

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token (TOKEN) is required")
	assert.Contains(t, err.Error(), "telegram.chat_id (CHAT_ID) is required")

	assert.NoError(t, cfg.ValidateDryRun())

	cfg.Telegram.Token = "t"
	cfg.Telegram.ChatID = "1"
	assert.NoError(t, cfg.Validate())

	cfg.Alerts.Webhook.Enabled = true
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alerts.webhook.url")

	cfg.Alerts.Webhook.Enabled = false
	cfg.Monitor.Delay = -time.Second
	assert.Error(t, cfg.ValidateDryRun())
}
