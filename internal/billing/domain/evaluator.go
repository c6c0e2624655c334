package billing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ComponentResult is one evaluated component: its monetary total and a
// human-readable trace of the inputs that produced it.
type ComponentResult struct {
	Total  float64
	Detail string
}

// Evaluation is the outcome of one evaluator pass.
type Evaluation struct {
	Results    map[string]ComponentResult
	GrandTotal float64
}

// Evaluate computes every enabled component's charge in ascending Order.
// The ordering is load-bearing: dependent components with a calculated-cost
// basis read the already-computed totals of earlier components, and a
// forward reference resolves to 0. Missing rates, units, and basis
// components all contribute 0; the evaluator never fails.
func Evaluate(components []BillingComponent, rates RateSet, quantities Quantities) Evaluation {
	ordered := make([]BillingComponent, len(components))
	copy(ordered, components)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	byID := make(map[string]BillingComponent, len(components))
	for _, component := range components {
		byID[component.ID] = component
	}

	evaluation := Evaluation{Results: make(map[string]ComponentResult, len(ordered))}
	for _, component := range ordered {
		if !component.Enabled {
			continue
		}
		result := evaluateComponent(component, byID, rates, quantities, evaluation.Results)
		result = clampResult(component, result)
		evaluation.Results[component.ID] = result
		evaluation.GrandTotal += result.Total
	}
	return evaluation
}

func evaluateComponent(component BillingComponent, byID map[string]BillingComponent, rates RateSet, quantities Quantities, results map[string]ComponentResult) ComponentResult {
	switch component.Method {
	case MethodFlat:
		rate := rates.Value(component.ID)
		return ComponentResult{
			Total:  rate,
			Detail: fmt.Sprintf("flat charge %.4f", rate),
		}

	case MethodPerUnit:
		quantity := quantities.Unit(component.UnitBasis)
		rate := rates.Value(component.ID)
		return ComponentResult{
			Total:  quantity * rate,
			Detail: fmt.Sprintf("%.4f %s x %.4f", quantity, component.UnitBasis, rate),
		}

	case MethodTiered:
		return evaluateTiered(component, rates, quantities)

	case MethodTimeOfUse:
		return evaluateTimeOfUse(component, rates, quantities)

	case MethodPercentage:
		rate := rates.Value(component.ID)
		basis := basisSum(component, byID, quantities, results)
		return ComponentResult{
			Total:  basis * rate / 100,
			Detail: fmt.Sprintf("%.4f%% of %s %.4f", rate, basisLabel(component), basis),
		}

	case MethodRateTimesSubtotal:
		rate := rates.Value(component.ID)
		basis := basisSum(component, byID, quantities, results)
		return ComponentResult{
			Total:  basis * rate,
			Detail: fmt.Sprintf("rate %.4f x %s %.4f", rate, basisLabel(component), basis),
		}
	}
	return ComponentResult{Detail: "unknown method"}
}

// evaluateTiered applies each configured tier independently against the
// total quantity. Tiers are trusted as configured: no contiguity or
// overlap check, so overlapping tiers double-count.
func evaluateTiered(component BillingComponent, rates RateSet, quantities Quantities) ComponentResult {
	quantity := quantities.Unit(component.UnitBasis)
	var total float64
	parts := make([]string, 0, len(component.Tiers))
	for index, tier := range component.Tiers {
		upper := math.Inf(1)
		if tier.To != nil {
			upper = *tier.To
		}
		inTier := math.Min(quantity, upper) - tier.From
		if inTier < 0 {
			inTier = 0
		}
		rate := rates.Value(TierRateKey(component.ID, index))
		total += inTier * rate
		parts = append(parts, fmt.Sprintf("tier %d: %.4f %s x %.4f", index+1, inTier, component.UnitBasis, rate))
	}
	return ComponentResult{Total: total, Detail: strings.Join(parts, "; ")}
}

func evaluateTimeOfUse(component BillingComponent, rates RateSet, quantities Quantities) ComponentResult {
	var total float64
	parts := make([]string, 0, len(component.TOUSlots))
	for index, slot := range component.TOUSlots {
		key := TierRateKey(component.ID, index)
		quantity := quantities.Slot(key)
		rate := rates.Value(key)
		total += quantity * rate
		name := slot.Name
		if name == "" {
			name = key
		}
		parts = append(parts, fmt.Sprintf("%s: %.4f %s x %.4f", name, quantity, component.UnitBasis, rate))
	}
	return ComponentResult{Total: total, Detail: strings.Join(parts, "; ")}
}

// basisSum totals the referenced basis components, either their raw unit
// quantities or their already-computed costs. Unknown references and not
// yet evaluated components contribute 0.
func basisSum(component BillingComponent, byID map[string]BillingComponent, quantities Quantities, results map[string]ComponentResult) float64 {
	var sum float64
	for _, id := range component.BasisComponentIDs {
		switch component.SubtotalBasis {
		case SubtotalBasisRecordedValues:
			ref, ok := byID[id]
			if !ok {
				continue
			}
			sum += quantities.Unit(ref.UnitBasis)
		case SubtotalBasisCalculatedCost:
			sum += results[id].Total
		}
	}
	return sum
}

func basisLabel(component BillingComponent) string {
	if component.SubtotalBasis == SubtotalBasisRecordedValues {
		return fmt.Sprintf("recorded values of [%s]", strings.Join(component.BasisComponentIDs, ", "))
	}
	return fmt.Sprintf("calculated cost of [%s]", strings.Join(component.BasisComponentIDs, ", "))
}

func clampResult(component BillingComponent, result ComponentResult) ComponentResult {
	if component.MinCharge != nil && result.Total < *component.MinCharge {
		result.Total = *component.MinCharge
		result.Detail += fmt.Sprintf(" (raised to minimum charge %.4f)", *component.MinCharge)
	}
	if component.MaxCharge != nil && result.Total > *component.MaxCharge {
		result.Total = *component.MaxCharge
		result.Detail += fmt.Sprintf(" (capped at maximum charge %.4f)", *component.MaxCharge)
	}
	return result
}
