package telemetry

import (
	"context"
	"time"
)

// Sign marks whether a sample's values add to or subtract from an
// aggregation. It is inherited from the linked-meter operation that
// produced the sample.
type Sign int

const (
	SignAdd      Sign = 1
	SignSubtract Sign = -1
)

// Sample is one timestamped telemetry reading. Fields maps a signal id to
// its raw numeric value; Sign must be applied to every field before any
// aggregation.
type Sample struct {
	Timestamp time.Time
	Fields    map[string]float64
	Sign      Sign
}

// SignedField returns the value of the given field with the sample's sign
// applied. The second return reports whether the field is present.
func (s Sample) SignedField(field string) (float64, bool) {
	value, ok := s.Fields[field]
	if !ok {
		return 0, false
	}
	return value * float64(s.Sign), true
}

// ManualEntry is a human-entered periodic reading for a manually metered
// node.
type ManualEntry struct {
	Timestamp time.Time
	Readings  map[string]float64
}

// SampleQuery loads telemetry samples for a meter source address.
type SampleQuery interface {
	QuerySamples(ctx context.Context, sourceAddress string, start, end time.Time) ([]Sample, error)
}

// ManualEntryQuery loads manual readings captured against a node.
type ManualEntryQuery interface {
	QueryManualEntries(ctx context.Context, nodeID string, start, end time.Time) ([]ManualEntry, error)
}
