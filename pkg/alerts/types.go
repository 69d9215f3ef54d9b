package alerts

import "context"

// Alert is a price-drop notification for one product.
type Alert struct {
	ProductName  string  `json:"product_name"`
	URL          string  `json:"url"`
	Price        float64 `json:"price"`
	DesiredPrice float64 `json:"desired_price"`
	Currency     string  `json:"currency"`
}

// Notifier sends alerts to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert.
	Send(ctx context.Context, alert Alert) error
}
