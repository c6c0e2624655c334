package postgres

import (
	"context"
	"database/sql"
	"errors"

	billing "tariff-engine/internal/billing/domain"
)

// ConfigRepository reads billing configuration from postgres.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository constructs a repository.
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// ListSignalMappings returns the global signal mappings.
func (r *ConfigRepository) ListSignalMappings(ctx context.Context) ([]billing.SignalMapping, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("config repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT unit, field_id, reduction
FROM signal_mappings
ORDER BY unit`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []billing.SignalMapping
	for rows.Next() {
		var mapping billing.SignalMapping
		var reduction string
		if err := rows.Scan(&mapping.Unit, &mapping.FieldID, &reduction); err != nil {
			return nil, err
		}
		mapping.Reduction = billing.Reduction(reduction)
		mappings = append(mappings, mapping)
	}
	return mappings, rows.Err()
}

// ListCategories returns the display categories.
func (r *ConfigRepository) ListCategories(ctx context.Context) ([]billing.Category, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("config repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, display_order
FROM billing_categories
ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []billing.Category
	for rows.Next() {
		var category billing.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Order); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// ListComponents returns every billing component with its tiers, slots and
// basis references attached.
func (r *ConfigRepository) ListComponents(ctx context.Context) ([]billing.BillingComponent, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("config repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, display_order, category_id, name, type, method, unit_basis, enabled,
	subtotal_basis, min_charge, max_charge
FROM billing_components
ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []billing.BillingComponent
	index := make(map[string]int)
	for rows.Next() {
		var component billing.BillingComponent
		var componentType, method string
		var unitBasis, subtotalBasis sql.NullString
		var minCharge, maxCharge sql.NullFloat64
		if err := rows.Scan(
			&component.ID, &component.Order, &component.CategoryID, &component.Name,
			&componentType, &method, &unitBasis, &component.Enabled,
			&subtotalBasis, &minCharge, &maxCharge,
		); err != nil {
			return nil, err
		}
		component.Type = billing.ComponentType(componentType)
		component.Method = billing.Method(method)
		component.UnitBasis = unitBasis.String
		component.SubtotalBasis = billing.SubtotalBasis(subtotalBasis.String)
		if minCharge.Valid {
			value := minCharge.Float64
			component.MinCharge = &value
		}
		if maxCharge.Valid {
			value := maxCharge.Float64
			component.MaxCharge = &value
		}
		index[component.ID] = len(components)
		components = append(components, component)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTiers(ctx, components, index); err != nil {
		return nil, err
	}
	if err := r.attachSlots(ctx, components, index); err != nil {
		return nil, err
	}
	if err := r.attachBasis(ctx, components, index); err != nil {
		return nil, err
	}
	return components, nil
}

func (r *ConfigRepository) attachTiers(ctx context.Context, components []billing.BillingComponent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT component_id, tier_from, tier_to
FROM billing_component_tiers
ORDER BY component_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentID string
		var tier billing.Tier
		var upper sql.NullFloat64
		if err := rows.Scan(&componentID, &tier.From, &upper); err != nil {
			return err
		}
		if upper.Valid {
			value := upper.Float64
			tier.To = &value
		}
		if i, ok := index[componentID]; ok {
			components[i].Tiers = append(components[i].Tiers, tier)
		}
	}
	return rows.Err()
}

func (r *ConfigRepository) attachSlots(ctx context.Context, components []billing.BillingComponent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT component_id, slot_id, name, start_hour, end_hour
FROM billing_component_slots
ORDER BY component_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentID string
		var slot billing.TOUSlot
		if err := rows.Scan(&componentID, &slot.ID, &slot.Name, &slot.StartHour, &slot.EndHour); err != nil {
			return err
		}
		if i, ok := index[componentID]; ok {
			components[i].TOUSlots = append(components[i].TOUSlots, slot)
		}
	}
	return rows.Err()
}

func (r *ConfigRepository) attachBasis(ctx context.Context, components []billing.BillingComponent, index map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT component_id, basis_component_id
FROM billing_component_basis
ORDER BY component_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentID, basisID string
		if err := rows.Scan(&componentID, &basisID); err != nil {
			return err
		}
		if i, ok := index[componentID]; ok {
			components[i].BasisComponentIDs = append(components[i].BasisComponentIDs, basisID)
		}
	}
	return rows.Err()
}
