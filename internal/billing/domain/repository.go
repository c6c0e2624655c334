package billing

import "context"

// ConfigurationRepository reads the long-lived billing configuration. The
// engine consumes it read-only, as an immutable snapshot per evaluation.
type ConfigurationRepository interface {
	ListSignalMappings(ctx context.Context) ([]SignalMapping, error)
	ListComponents(ctx context.Context) ([]BillingComponent, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// RateRepository reads committed rate sets. Rate sets are append-only; one
// month can carry several commits and the latest one wins.
type RateRepository interface {
	// LatestForMonth returns the most recently committed rate set for a
	// "YYYY-MM" billing month, or ErrRateSetNotFound.
	LatestForMonth(ctx context.Context, month string) (RateSet, error)
}
