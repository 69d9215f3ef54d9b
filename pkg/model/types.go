package model

import "time"

// Product is a single monitored catalog entry.
type Product struct {
	Name         string  `json:"name" yaml:"name"`
	URL          string  `json:"url" yaml:"url"`
	DesiredPrice float64 `json:"desired_price" yaml:"desired_price"`
}

// CheckStatus is the outcome of checking one product.
type CheckStatus string

const (
	StatusAlerted      CheckStatus = "alerted"       // Price at or below target, notification sent
	StatusAboveTarget  CheckStatus = "above_target"  // Price found but higher than target
	StatusNotFound     CheckStatus = "not_found"     // Page fetched, no usable price marker
	StatusFetchFailed  CheckStatus = "fetch_failed"  // Network error or non-2xx response
	StatusNotifyFailed CheckStatus = "notify_failed" // Price at or below target, every notifier failed
)

// CheckResult records what happened to one product during a run.
type CheckResult struct {
	Product Product     `json:"product"`
	Price   float64     `json:"price,omitempty"`
	Found   bool        `json:"found"`
	Status  CheckStatus `json:"status"`
	Error   string      `json:"error,omitempty"`
}

// RunSummary aggregates a single pass over the catalog. It is never persisted.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Results    []CheckResult `json:"results"`
}

// Count returns how many results have the given status.
func (s *RunSummary) Count(status CheckStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Duration returns the wall-clock time of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
