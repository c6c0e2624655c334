package billing

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateFlat(t *testing.T) {
	components := []BillingComponent{{ID: "fixed", Order: 1, Method: MethodFlat, Enabled: true}}
	rates := RateSet{Values: map[string]float64{"fixed": 12.5}}

	evaluation := Evaluate(components, rates, Quantities{})
	if got := evaluation.Results["fixed"].Total; got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
	if evaluation.GrandTotal != 12.5 {
		t.Fatalf("expected grand total 12.5, got %v", evaluation.GrandTotal)
	}
}

func TestEvaluatePerUnit(t *testing.T) {
	components := []BillingComponent{{ID: "energy", Order: 1, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true}}
	rates := RateSet{Values: map[string]float64{"energy": 0.25}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 200}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["energy"].Total; got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestEvaluateTieredExample(t *testing.T) {
	upper := 100.0
	components := []BillingComponent{{
		ID:        "blocks",
		Order:     1,
		Method:    MethodTiered,
		UnitBasis: UnitKWh,
		Enabled:   true,
		Tiers:     []Tier{{From: 0, To: &upper}, {From: 100, To: nil}},
	}}
	rates := RateSet{Values: map[string]float64{
		TierRateKey("blocks", 0): 0.20,
		TierRateKey("blocks", 1): 0.30,
	}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 150}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["blocks"].Total; !almostEqual(got, 35) {
		t.Fatalf("expected 35, got %v", got)
	}
	detail := evaluation.Results["blocks"].Detail
	if !strings.Contains(detail, "tier 1") || !strings.Contains(detail, "tier 2") {
		t.Fatalf("expected per-tier detail, got %q", detail)
	}
}

func TestEvaluateTieredOverlapDoubleCounts(t *testing.T) {
	upper := 100.0
	components := []BillingComponent{{
		ID:        "blocks",
		Order:     1,
		Method:    MethodTiered,
		UnitBasis: UnitKWh,
		Enabled:   true,
		Tiers:     []Tier{{From: 0, To: &upper}, {From: 0, To: &upper}},
	}}
	rates := RateSet{Values: map[string]float64{
		TierRateKey("blocks", 0): 1,
		TierRateKey("blocks", 1): 1,
	}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 50}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["blocks"].Total; got != 100 {
		t.Fatalf("expected overlapping tiers to double-count to 100, got %v", got)
	}
}

func TestEvaluateTimeOfUse(t *testing.T) {
	components := []BillingComponent{{
		ID:        "tou",
		Order:     1,
		Method:    MethodTimeOfUse,
		UnitBasis: UnitKWh,
		Enabled:   true,
		TOUSlots: []TOUSlot{
			{ID: "offpeak", Name: "Off-peak", StartHour: 22, EndHour: 6},
			{ID: "peak", Name: "Peak", StartHour: 6, EndHour: 22},
		},
	}}
	rates := RateSet{Values: map[string]float64{
		TierRateKey("tou", 0): 0.10,
		TierRateKey("tou", 1): 0.40,
	}}
	quantities := Quantities{TOU: map[string]float64{
		TierRateKey("tou", 0): 30,
		TierRateKey("tou", 1): 70,
	}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["tou"].Total; !almostEqual(got, 31) {
		t.Fatalf("expected 31, got %v", got)
	}
}

func TestEvaluateDependentCalculatedCost(t *testing.T) {
	components := []BillingComponent{
		{ID: "a", Order: 1, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true},
		{
			ID: "b", Order: 2, Method: MethodPercentage, Enabled: true,
			BasisComponentIDs: []string{"a"},
			SubtotalBasis:     SubtotalBasisCalculatedCost,
		},
	}
	rates := RateSet{Values: map[string]float64{"a": 0.20, "b": 15}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 100}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["a"].Total; !almostEqual(got, 20) {
		t.Fatalf("expected a=20, got %v", got)
	}
	if got := evaluation.Results["b"].Total; !almostEqual(got, 3) {
		t.Fatalf("expected b=3, got %v", got)
	}
	if !almostEqual(evaluation.GrandTotal, 23) {
		t.Fatalf("expected grand total 23, got %v", evaluation.GrandTotal)
	}
}

func TestEvaluateForwardReferenceYieldsZero(t *testing.T) {
	components := []BillingComponent{
		{
			ID: "b", Order: 1, Method: MethodPercentage, Enabled: true,
			BasisComponentIDs: []string{"a"},
			SubtotalBasis:     SubtotalBasisCalculatedCost,
		},
		{ID: "a", Order: 2, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true},
	}
	rates := RateSet{Values: map[string]float64{"a": 0.20, "b": 15}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 100}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["b"].Total; got != 0 {
		t.Fatalf("expected forward reference to resolve to 0, got %v", got)
	}
	if !almostEqual(evaluation.GrandTotal, 20) {
		t.Fatalf("expected grand total 20, got %v", evaluation.GrandTotal)
	}
}

func TestEvaluateRecordedValuesBasis(t *testing.T) {
	components := []BillingComponent{
		{ID: "a", Order: 1, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true},
		{
			ID: "levy", Order: 2, Method: MethodRateTimesSubtotal, Enabled: true,
			BasisComponentIDs: []string{"a"},
			SubtotalBasis:     SubtotalBasisRecordedValues,
		},
	}
	rates := RateSet{Values: map[string]float64{"a": 0.20, "levy": 0.05}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 100}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["levy"].Total; !almostEqual(got, 5) {
		t.Fatalf("expected levy 5 over recorded 100 kWh, got %v", got)
	}
}

func TestEvaluateDisabledComponentSkipped(t *testing.T) {
	components := []BillingComponent{
		{ID: "on", Order: 1, Method: MethodFlat, Enabled: true},
		{ID: "off", Order: 2, Method: MethodFlat, Enabled: false},
	}
	rates := RateSet{Values: map[string]float64{"on": 10, "off": 99}}

	evaluation := Evaluate(components, rates, Quantities{})
	if _, ok := evaluation.Results["off"]; ok {
		t.Fatal("expected disabled component absent from results")
	}
	if evaluation.GrandTotal != 10 {
		t.Fatalf("expected grand total 10, got %v", evaluation.GrandTotal)
	}
}

func TestEvaluateMissingRateDefaultsToZero(t *testing.T) {
	components := []BillingComponent{{ID: "energy", Order: 1, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 500}}

	evaluation := Evaluate(components, RateSet{}, quantities)
	if got := evaluation.Results["energy"].Total; got != 0 {
		t.Fatalf("expected 0 for missing rate, got %v", got)
	}
}

func TestEvaluateClamps(t *testing.T) {
	minCharge := 5.0
	maxCharge := 40.0
	components := []BillingComponent{
		{ID: "low", Order: 1, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true, MinCharge: &minCharge},
		{ID: "high", Order: 2, Method: MethodPerUnit, UnitBasis: UnitKWh, Enabled: true, MaxCharge: &maxCharge},
	}
	rates := RateSet{Values: map[string]float64{"low": 0.01, "high": 1}}
	quantities := Quantities{Units: map[string]float64{UnitKWh: 100}}

	evaluation := Evaluate(components, rates, quantities)
	if got := evaluation.Results["low"].Total; got != 5 {
		t.Fatalf("expected minimum charge 5, got %v", got)
	}
	if got := evaluation.Results["high"].Total; got != 40 {
		t.Fatalf("expected maximum charge 40, got %v", got)
	}
	if !almostEqual(evaluation.GrandTotal, 45) {
		t.Fatalf("expected grand total 45, got %v", evaluation.GrandTotal)
	}
}
