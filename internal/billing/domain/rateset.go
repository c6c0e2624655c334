package billing

import (
	"fmt"
	"time"
)

// RateSet is one committed snapshot of every per-component rate for a
// billing month. Keys are either a bare component id, or the composite
// "{componentId}_{index}" form for tier and slot rates. The string form is
// the persisted convention; TierRateKey is the single construction point.
type RateSet struct {
	Month       string
	CommittedAt time.Time
	Values      map[string]float64
}

// TierRateKey builds the composite key for a tier or slot rate.
func TierRateKey(componentID string, index int) string {
	return fmt.Sprintf("%s_%d", componentID, index)
}

// Value returns the rate for a key, or 0 when the key is absent. A missing
// rate is a configuration gap, never an error.
func (r RateSet) Value(key string) float64 {
	return r.Values[key]
}
