package alerts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	webhookEvent     = "price_alert"
	webhookUsername  = "Price Guardian"
	webhookUserAgent = "Price-Guardian/1.0"
	signatureHeader  = "X-Signature-256"
)

// WebhookNotifier posts price alerts to an HTTP endpoint. Discord webhook
// URLs receive a chat message; any other URL receives the structured event.
type WebhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier. A non-empty secret signs
// each body with HMAC-SHA256 in the X-Signature-256 header.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(w.payload(alert, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)
	if w.secret != "" {
		req.Header.Set(signatureHeader, "sha256="+sign(body, w.secret))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post price alert to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *WebhookNotifier) payload(alert Alert, now time.Time) any {
	if strings.Contains(w.url, "discord") {
		return discordMessage{Content: FormatMessage(alert), Username: webhookUsername}
	}
	return newPriceEvent(alert, now)
}

type discordMessage struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// priceEvent is the structured body for generic endpoints.
type priceEvent struct {
	Event        string  `json:"event"`
	Timestamp    string  `json:"timestamp"`
	Product      string  `json:"product"`
	URL          string  `json:"url"`
	Price        float64 `json:"price"`
	DesiredPrice float64 `json:"desired_price"`
	Currency     string  `json:"currency"`
	Savings      float64 `json:"savings"`
	PercentBelow float64 `json:"percent_below"`
	Message      string  `json:"message"`
}

func newPriceEvent(alert Alert, now time.Time) priceEvent {
	currency := alert.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	var savings, pct float64
	if alert.DesiredPrice > 0 {
		savings = roundCents(alert.DesiredPrice - alert.Price)
		pct = roundCents(savings / alert.DesiredPrice * 100)
	}

	return priceEvent{
		Event:        webhookEvent,
		Timestamp:    now.Format(time.RFC3339),
		Product:      alert.ProductName,
		URL:          alert.URL,
		Price:        alert.Price,
		DesiredPrice: alert.DesiredPrice,
		Currency:     currency,
		Savings:      savings,
		PercentBelow: pct,
		Message:      FormatMessage(alert),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
