package billing

// Method is the closed set of component calculation methods.
type Method string

const (
	MethodFlat              Method = "flat"
	MethodPerUnit           Method = "per_unit"
	MethodTiered            Method = "tiered"
	MethodTimeOfUse         Method = "time_of_use"
	MethodPercentage        Method = "percentage"
	MethodRateTimesSubtotal Method = "rate_times_subtotal"
)

// IsValid reports whether the method is a known value.
func (m Method) IsValid() bool {
	switch m {
	case MethodFlat, MethodPerUnit, MethodTiered, MethodTimeOfUse, MethodPercentage, MethodRateTimesSubtotal:
		return true
	}
	return false
}

// IsDependent reports whether the method reads other components' results.
func (m Method) IsDependent() bool {
	return m == MethodPercentage || m == MethodRateTimesSubtotal
}

// ComponentType labels what kind of charge a component is. Informational
// only; it never affects the math.
type ComponentType string

const (
	TypeConsumption ComponentType = "consumption"
	TypeDemand      ComponentType = "demand"
	TypeFixed       ComponentType = "fixed"
	TypeLevy        ComponentType = "levy"
	TypeTax         ComponentType = "tax"
	TypeAdjustment  ComponentType = "adjustment"
)

// SubtotalBasis selects what a dependent component sums over its basis
// components.
type SubtotalBasis string

const (
	// SubtotalBasisRecordedValues sums the basis components' raw unit
	// quantities.
	SubtotalBasisRecordedValues SubtotalBasis = "recorded_values"
	// SubtotalBasisCalculatedCost sums the basis components' already
	// computed monetary totals.
	SubtotalBasisCalculatedCost SubtotalBasis = "calculated_cost"
)

// IsValid reports whether the subtotal basis is a known value.
func (b SubtotalBasis) IsValid() bool {
	return b == SubtotalBasisRecordedValues || b == SubtotalBasisCalculatedCost
}

// Tier is one consumption bracket of a tiered component. A nil To means
// the bracket is unbounded.
type Tier struct {
	From float64
	To   *float64
}

// TOUSlot is one hour-of-day pricing window of a time-of-use component.
type TOUSlot struct {
	ID        string
	Name      string
	StartHour int
	EndHour   int
}

// ContainsHour reports whether the hour falls inside the slot window.
// EndHour at or before StartHour wraps past midnight, so {22, 6} covers
// 22..23 and 0..5.
func (s TOUSlot) ContainsHour(hour int) bool {
	if s.StartHour < s.EndHour {
		return hour >= s.StartHour && hour < s.EndHour
	}
	return hour >= s.StartHour || hour < s.EndHour
}

// Category groups components for display. Purely presentational.
type Category struct {
	ID    string
	Name  string
	Order int
}

// BillingComponent is one priced line item of the tariff.
type BillingComponent struct {
	ID         string
	Order      int
	CategoryID string
	Name       string
	Type       ComponentType
	Method     Method
	UnitBasis  string
	Enabled    bool

	// Tiers is set only for MethodTiered.
	Tiers []Tier
	// TOUSlots is set only for MethodTimeOfUse.
	TOUSlots []TOUSlot
	// BasisComponentIDs and SubtotalBasis are set only for dependent
	// methods.
	BasisComponentIDs []string
	SubtotalBasis     SubtotalBasis

	// Optional clamps applied to the component's computed total.
	MinCharge *float64
	MaxCharge *float64
}

// Validate enforces that each method carries only the fields it needs.
func (c BillingComponent) Validate() error {
	if c.ID == "" {
		return ErrEmptyComponentID
	}
	if !c.Method.IsValid() {
		return ErrInvalidMethod
	}
	if len(c.Tiers) > 0 && c.Method != MethodTiered {
		return ErrUnexpectedTiers
	}
	if len(c.TOUSlots) > 0 && c.Method != MethodTimeOfUse {
		return ErrUnexpectedSlots
	}
	if len(c.BasisComponentIDs) > 0 && !c.Method.IsDependent() {
		return ErrUnexpectedBasis
	}
	switch c.Method {
	case MethodPerUnit, MethodTiered, MethodTimeOfUse:
		if c.UnitBasis == "" {
			return ErrMissingUnitBasis
		}
	case MethodPercentage, MethodRateTimesSubtotal:
		if !c.SubtotalBasis.IsValid() {
			return ErrInvalidSubtotalBasis
		}
	}
	for _, slot := range c.TOUSlots {
		if slot.StartHour < 0 || slot.StartHour > 23 || slot.EndHour < 0 || slot.EndHour > 23 {
			return ErrInvalidSlotHours
		}
	}
	return nil
}
