package monitor

// ShouldAlert reports whether an observed price meets the target.
// Equality counts as a hit.
func ShouldAlert(price, desired float64) bool {
	return price <= desired
}
