package alerts_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   float64
		expected string
	}{
		{"two decimals", "R$", 199.9, "R$ 199.90"},
		{"thousands grouping", "R$", 1234.5, "R$ 1,234.50"},
		{"whole number", "$", 15, "$ 15.00"},
		{"default currency", "", 10, "R$ 10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, alerts.FormatPrice(tt.currency, tt.amount))
		})
	}
}

func TestFormatMessage(t *testing.T) {
	msg := alerts.FormatMessage(testAlert())

	assert.Contains(t, msg, "Price dropped")
	assert.Contains(t, msg, "Headphones")
	assert.Contains(t, msg, "R$ 129.90")
	assert.Contains(t, msg, "R$ 150.00")
	assert.Contains(t, msg, "(https://shop.example/p/1)")
}

func TestFormatMessage_EscapesMarkdown(t *testing.T) {
	alert := testAlert()
	alert.ProductName = "USB_C *fast* cable"

	msg := alerts.FormatMessage(alert)
	assert.Contains(t, msg, `USB\_C \*fast\* cable`)
}

func TestFormatMessage_NoTarget(t *testing.T) {
	alert := testAlert()
	alert.DesiredPrice = 0

	msg := alerts.FormatMessage(alert)
	assert.NotContains(t, msg, "Target")
}

func TestLogNotifier_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := alerts.NewLogNotifier(logger)
	assert.Equal(t, "log", n.Name())

	err := n.Send(context.Background(), testAlert())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "price alert")
	assert.Contains(t, buf.String(), "Headphones")
}
