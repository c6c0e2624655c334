package billing

// Billing units the engine prices against.
const (
	UnitKWh   = "kWh"
	UnitKVA   = "kVA"
	UnitKVARh = "kVARh"
)

// Reduction is how a stream of samples folds into one scalar quantity.
type Reduction string

const (
	ReductionSum    Reduction = "sum"
	ReductionAvg    Reduction = "avg"
	ReductionMin    Reduction = "min"
	ReductionMax    Reduction = "max"
	ReductionLatest Reduction = "latest"
)

// IsValid reports whether the reduction is a known value.
func (r Reduction) IsValid() bool {
	switch r {
	case ReductionSum, ReductionAvg, ReductionMin, ReductionMax, ReductionLatest:
		return true
	}
	return false
}

// SignalMapping binds a billing unit to its source telemetry field and the
// reduction used to fold samples. Mappings are global, not per node.
type SignalMapping struct {
	Unit      string
	FieldID   string
	Reduction Reduction
}

// Validate checks mapping invariants.
func (m SignalMapping) Validate() error {
	if m.Unit == "" {
		return ErrMissingUnitBasis
	}
	if m.FieldID == "" {
		return ErrEmptySignalField
	}
	if !m.Reduction.IsValid() {
		return ErrInvalidReduction
	}
	return nil
}

// EffectiveReduction applies the fixed policy overrides: kWh always sums
// and kVA always takes the peak, regardless of configuration.
func EffectiveReduction(unit string, configured Reduction) Reduction {
	switch unit {
	case UnitKWh:
		return ReductionSum
	case UnitKVA:
		return ReductionMax
	}
	if !configured.IsValid() {
		return ReductionSum
	}
	return configured
}
