package alerts

import (
	"context"
	"log/slog"
)

// LogNotifier writes alerts to the logger instead of delivering them.
// It backs dry runs.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Send(ctx context.Context, alert Alert) error {
	l.logger.InfoContext(ctx, "price alert (dry run)",
		"product", alert.ProductName,
		"price", alert.Price,
		"desired_price", alert.DesiredPrice,
		"url", alert.URL,
		"message", FormatMessage(alert),
	)
	return nil
}
