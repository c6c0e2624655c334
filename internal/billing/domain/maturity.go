package billing

import "time"

// MaturityThreshold is the minimum window length for demand-basis charges
// to apply. Peak demand over a shorter window is not considered a valid
// billing cycle, so kVA quantities are suppressed rather than prorated.
const MaturityThreshold = 27 * 24 * time.Hour

// IsMature reports whether the evaluation window is long enough for
// demand-basis billing. Non-positive windows are immature.
func IsMature(start, end time.Time) bool {
	return end.Sub(start) > MaturityThreshold
}

// ApplyMaturityGate zeroes every kVA-based quantity when the window is
// immature: the top-level kVA unit quantity and each TOU quantity owned by
// a component whose unit basis is kVA. Mature windows pass through
// untouched.
func ApplyMaturityGate(quantities Quantities, components []BillingComponent, start, end time.Time) Quantities {
	if IsMature(start, end) {
		return quantities
	}
	if _, ok := quantities.Units[UnitKVA]; ok {
		quantities.Units[UnitKVA] = 0
	}
	for _, component := range components {
		if component.UnitBasis != UnitKVA {
			continue
		}
		for index := range component.TOUSlots {
			key := TierRateKey(component.ID, index)
			if _, ok := quantities.TOU[key]; ok {
				quantities.TOU[key] = 0
			}
		}
	}
	return quantities
}
