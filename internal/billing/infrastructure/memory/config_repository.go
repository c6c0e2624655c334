package memory

import (
	"context"
	"sync"

	billing "tariff-engine/internal/billing/domain"
)

// ConfigRepository is an in-memory billing configuration for demo/testing.
type ConfigRepository struct {
	mu         sync.RWMutex
	mappings   []billing.SignalMapping
	components []billing.BillingComponent
	categories []billing.Category
}

// NewConfigRepository constructs a repository.
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// SetSignalMappings replaces the signal mappings.
func (r *ConfigRepository) SetSignalMappings(mappings []billing.SignalMapping) error {
	for _, mapping := range mappings {
		if err := mapping.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings = append([]billing.SignalMapping(nil), mappings...)
	return nil
}

// SetComponents replaces the billing components.
func (r *ConfigRepository) SetComponents(components []billing.BillingComponent) error {
	for _, component := range components {
		if err := component.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append([]billing.BillingComponent(nil), components...)
	return nil
}

// SetCategories replaces the categories.
func (r *ConfigRepository) SetCategories(categories []billing.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append([]billing.Category(nil), categories...)
}

// ListSignalMappings returns the configured mappings.
func (r *ConfigRepository) ListSignalMappings(ctx context.Context) ([]billing.SignalMapping, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]billing.SignalMapping(nil), r.mappings...), nil
}

// ListComponents returns the configured components.
func (r *ConfigRepository) ListComponents(ctx context.Context) ([]billing.BillingComponent, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]billing.BillingComponent(nil), r.components...), nil
}

// ListCategories returns the configured categories.
func (r *ConfigRepository) ListCategories(ctx context.Context) ([]billing.Category, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]billing.Category(nil), r.categories...), nil
}

// RateRepository is an in-memory append-only rate set store.
type RateRepository struct {
	mu      sync.RWMutex
	commits map[string][]billing.RateSet
}

// NewRateRepository constructs a repository.
func NewRateRepository() *RateRepository {
	return &RateRepository{commits: make(map[string][]billing.RateSet)}
}

// Commit appends a rate set for its month.
func (r *RateRepository) Commit(set billing.RateSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits[set.Month] = append(r.commits[set.Month], set)
}

// LatestForMonth returns the most recently committed rate set.
func (r *RateRepository) LatestForMonth(ctx context.Context, month string) (billing.RateSet, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	sets := r.commits[month]
	if len(sets) == 0 {
		return billing.RateSet{}, billing.ErrRateSetNotFound
	}
	latest := sets[0]
	for _, set := range sets[1:] {
		if !set.CommittedAt.Before(latest.CommittedAt) {
			latest = set
		}
	}
	return latest, nil
}
