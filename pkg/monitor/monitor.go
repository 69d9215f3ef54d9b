package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
	"github.com/ogulcanaydogan/price-guardian/pkg/model"
	"github.com/ogulcanaydogan/price-guardian/pkg/scraper"
)

var tracer = otel.Tracer("priceguard/monitor")

// PriceSource looks up the current price of a product page.
type PriceSource interface {
	FetchPrice(ctx context.Context, url string) (price float64, found bool, err error)
}

// Options tunes a Monitor.
type Options struct {
	// Delay between consecutive products. Zero or negative disables the pause.
	Delay    time.Duration
	Currency string
}

// Monitor checks a catalog once and dispatches alerts.
type Monitor struct {
	source    PriceSource
	notifiers []alerts.Notifier
	delay     time.Duration
	currency  string
	logger    *slog.Logger
}

// New creates a monitor.
func New(source PriceSource, notifiers []alerts.Notifier, opts Options, logger *slog.Logger) *Monitor {
	delay := max(opts.Delay, 0)
	currency := opts.Currency
	if currency == "" {
		currency = alerts.DefaultCurrency
	}
	return &Monitor{
		source:    source,
		notifiers: notifiers,
		delay:     delay,
		currency:  currency,
		logger:    logger,
	}
}

// Run checks every product once, in order, pausing between products.
// Per-product failures never stop the run. If ctx is cancelled the partial
// summary is returned together with ctx.Err().
func (m *Monitor) Run(ctx context.Context, products []model.Product) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Results:   make([]model.CheckResult, 0, len(products)),
	}
	logger := m.logger.With("run_id", summary.RunID)

	if len(products) == 0 {
		logger.Warn("no products to monitor, check the catalog file")
		summary.FinishedAt = time.Now().UTC()
		return summary, nil
	}

	logger.Info("price check started", "products", len(products))

	for i, product := range products {
		if err := ctx.Err(); err != nil {
			return interrupted(logger, summary, err)
		}
		if i > 0 && m.delay > 0 {
			if err := sleep(ctx, m.delay); err != nil {
				return interrupted(logger, summary, err)
			}
		}
		summary.Results = append(summary.Results, m.check(ctx, logger, product))
	}

	// A cancellation during the last fetch still ends the run as interrupted.
	if err := ctx.Err(); err != nil {
		return interrupted(logger, summary, err)
	}

	summary.FinishedAt = time.Now().UTC()
	logger.Info("price check finished",
		"checked", len(summary.Results),
		"alerted", summary.Count(model.StatusAlerted),
		"above_target", summary.Count(model.StatusAboveTarget),
		"not_found", summary.Count(model.StatusNotFound),
		"fetch_failed", summary.Count(model.StatusFetchFailed),
		"notify_failed", summary.Count(model.StatusNotifyFailed),
		"duration", summary.Duration().String(),
	)
	return summary, nil
}

// Check runs a single product through fetch, compare and notify.
func (m *Monitor) Check(ctx context.Context, product model.Product) model.CheckResult {
	return m.check(ctx, m.logger, product)
}

func (m *Monitor) check(ctx context.Context, logger *slog.Logger, product model.Product) model.CheckResult {
	ctx, span := tracer.Start(ctx, "CheckProduct")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Float64("product.desired_price", product.DesiredPrice),
	)

	result := model.CheckResult{Product: product}
	logger = logger.With("product", product.Name)
	logger.Debug("checking product", "url", product.URL)

	price, found, err := m.source.FetchPrice(ctx, product.URL)
	switch {
	case err != nil:
		result.Error = err.Error()
		if isFetchError(err) {
			result.Status = model.StatusFetchFailed
			logger.Error("fetch product page", "url", product.URL, "error", err)
		} else {
			result.Status = model.StatusNotFound
			logger.Error("extract price", "url", product.URL, "error", err)
		}
		span.SetAttributes(attribute.String("check.status", string(result.Status)))
		return result
	case !found:
		result.Status = model.StatusNotFound
		logger.Info("price not found (product unavailable or page layout changed)", "url", product.URL)
		span.SetAttributes(attribute.String("check.status", string(result.Status)))
		return result
	}

	result.Price = price
	result.Found = true

	if !ShouldAlert(price, product.DesiredPrice) {
		result.Status = model.StatusAboveTarget
		logger.Info("price above target", "price", price, "desired_price", product.DesiredPrice)
		span.SetAttributes(attribute.String("check.status", string(result.Status)))
		return result
	}

	logger.Warn("price at or below target, sending alert", "price", price, "desired_price", product.DesiredPrice)
	result.Status = m.notify(ctx, logger, alerts.Alert{
		ProductName:  product.Name,
		URL:          product.URL,
		Price:        price,
		DesiredPrice: product.DesiredPrice,
		Currency:     m.currency,
	})
	if result.Status == model.StatusNotifyFailed {
		result.Error = "all notifiers failed"
	}
	span.SetAttributes(attribute.String("check.status", string(result.Status)))
	return result
}

// notify fans the alert out to every notifier. The product counts as alerted
// when at least one delivery succeeds.
func (m *Monitor) notify(ctx context.Context, logger *slog.Logger, alert alerts.Alert) model.CheckStatus {
	if len(m.notifiers) == 0 {
		logger.Warn("no notifiers configured, alert dropped")
		return model.StatusNotifyFailed
	}

	delivered := 0
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, alert); err != nil {
			logger.Error("send alert failed",
				"notifier", notifier.Name(),
				"error", err,
			)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return model.StatusNotifyFailed
	}
	return model.StatusAlerted
}

func interrupted(logger *slog.Logger, summary *model.RunSummary, err error) (*model.RunSummary, error) {
	logger.Warn("price check interrupted", "checked", len(summary.Results), "error", err)
	summary.FinishedAt = time.Now().UTC()
	return summary, err
}

func isFetchError(err error) bool {
	var fetchErr *scraper.FetchError
	return errors.As(err, &fetchErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
