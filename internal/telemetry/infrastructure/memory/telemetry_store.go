package memory

import (
	"context"
	"sync"
	"time"

	telemetry "tariff-engine/internal/telemetry/domain"
)

// TelemetryStore is an in-memory sample and manual-entry store for
// demo/testing.
type TelemetryStore struct {
	mu      sync.RWMutex
	samples map[string][]telemetry.Sample
	manual  map[string][]telemetry.ManualEntry
}

// NewTelemetryStore constructs a store.
func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{
		samples: make(map[string][]telemetry.Sample),
		manual:  make(map[string][]telemetry.ManualEntry),
	}
}

// AddSample records a sample for a source address.
func (s *TelemetryStore) AddSample(sourceAddress string, sample telemetry.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[sourceAddress] = append(s.samples[sourceAddress], sample)
}

// AddManualEntry records a manual reading for a node.
func (s *TelemetryStore) AddManualEntry(nodeID string, entry telemetry.ManualEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual[nodeID] = append(s.manual[nodeID], entry)
}

// QuerySamples returns samples with timestamps inside [start, end].
func (s *TelemetryStore) QuerySamples(ctx context.Context, sourceAddress string, start, end time.Time) ([]telemetry.Sample, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []telemetry.Sample
	for _, sample := range s.samples[sourceAddress] {
		if inWindow(sample.Timestamp, start, end) {
			result = append(result, sample)
		}
	}
	return result, nil
}

// QueryManualEntries returns manual readings inside [start, end].
func (s *TelemetryStore) QueryManualEntries(ctx context.Context, nodeID string, start, end time.Time) ([]telemetry.ManualEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []telemetry.ManualEntry
	for _, entry := range s.manual[nodeID] {
		if inWindow(entry.Timestamp, start, end) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func inWindow(at, start, end time.Time) bool {
	return !at.Before(start) && !at.After(end)
}
