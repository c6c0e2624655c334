package billing

import "errors"

var (
	// ErrEmptyComponentID is returned when a component id is empty.
	ErrEmptyComponentID = errors.New("billing: empty component id")
	// ErrInvalidMethod is returned for an unknown calculation method.
	ErrInvalidMethod = errors.New("billing: invalid calculation method")
	// ErrMissingUnitBasis is returned when a quantity-based method has no
	// unit basis.
	ErrMissingUnitBasis = errors.New("billing: missing unit basis")
	// ErrUnexpectedTiers is returned when tiers are set on a non-tiered
	// component.
	ErrUnexpectedTiers = errors.New("billing: tiers only valid for tiered method")
	// ErrUnexpectedSlots is returned when TOU slots are set on a component
	// that is not time-of-use.
	ErrUnexpectedSlots = errors.New("billing: slots only valid for time-of-use method")
	// ErrUnexpectedBasis is returned when basis component ids are set on a
	// non-dependent component.
	ErrUnexpectedBasis = errors.New("billing: basis components only valid for dependent methods")
	// ErrInvalidSubtotalBasis is returned for an unknown subtotal basis.
	ErrInvalidSubtotalBasis = errors.New("billing: invalid subtotal basis")
	// ErrInvalidSlotHours is returned when a TOU slot hour is outside 0-23.
	ErrInvalidSlotHours = errors.New("billing: slot hours must be within 0-23")
	// ErrInvalidReduction is returned for an unknown reduction method.
	ErrInvalidReduction = errors.New("billing: invalid reduction method")
	// ErrEmptySignalField is returned when a signal mapping has no source
	// field.
	ErrEmptySignalField = errors.New("billing: empty signal field")
	// ErrRateSetNotFound is returned when no rate set is committed for a
	// billing month.
	ErrRateSetNotFound = errors.New("billing: rate set not found")
)
