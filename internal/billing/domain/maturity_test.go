package billing

import (
	"testing"
	"time"
)

func TestIsMatureBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if IsMature(start, start.Add(27*24*time.Hour)) {
		t.Fatal("expected exactly 27 days to be immature")
	}
	if !IsMature(start, start.Add(27*24*time.Hour+time.Second)) {
		t.Fatal("expected just over 27 days to be mature")
	}
	if IsMature(start, start.Add(-time.Hour)) {
		t.Fatal("expected negative window to be immature")
	}
}

func TestApplyMaturityGateZeroesKVA(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)
	components := []BillingComponent{
		{
			ID:        "demand-tou",
			Method:    MethodTimeOfUse,
			UnitBasis: UnitKVA,
			Enabled:   true,
			TOUSlots:  []TOUSlot{{ID: "peak", StartHour: 6, EndHour: 22}},
		},
		{
			ID:        "energy-tou",
			Method:    MethodTimeOfUse,
			UnitBasis: UnitKWh,
			Enabled:   true,
			TOUSlots:  []TOUSlot{{ID: "peak", StartHour: 6, EndHour: 22}},
		},
	}
	quantities := Quantities{
		Units: map[string]float64{UnitKWh: 120, UnitKVA: 45},
		TOU: map[string]float64{
			TierRateKey("demand-tou", 0): 45,
			TierRateKey("energy-tou", 0): 80,
		},
	}

	gated := ApplyMaturityGate(quantities, components, start, end)
	if got := gated.Unit(UnitKVA); got != 0 {
		t.Fatalf("expected kVA zeroed, got %v", got)
	}
	if got := gated.Unit(UnitKWh); got != 120 {
		t.Fatalf("expected kWh untouched, got %v", got)
	}
	if got := gated.Slot(TierRateKey("demand-tou", 0)); got != 0 {
		t.Fatalf("expected kVA TOU slot zeroed, got %v", got)
	}
	if got := gated.Slot(TierRateKey("energy-tou", 0)); got != 80 {
		t.Fatalf("expected kWh TOU slot untouched, got %v", got)
	}
}

func TestApplyMaturityGateMaturePassThrough(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	quantities := Quantities{Units: map[string]float64{UnitKVA: 45}}

	gated := ApplyMaturityGate(quantities, nil, start, end)
	if got := gated.Unit(UnitKVA); got != 45 {
		t.Fatalf("expected kVA preserved for mature window, got %v", got)
	}
}
