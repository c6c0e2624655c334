package billing

import (
	"time"

	telemetry "tariff-engine/internal/telemetry/domain"
)

// Quantities is the aggregator output: one scalar per billing unit, plus
// per time-of-use-slot sub-totals keyed by "{componentId}_{slotIndex}".
type Quantities struct {
	Units map[string]float64
	TOU   map[string]float64
}

// Unit returns the quantity for a billing unit, or 0 when absent.
func (q Quantities) Unit(unit string) float64 {
	return q.Units[unit]
}

// Slot returns the quantity for a TOU composite key, or 0 when absent.
func (q Quantities) Slot(key string) float64 {
	return q.TOU[key]
}

// accumulator folds sample values under every reduction at once; the
// wanted reduction is picked at collapse time. An accumulator that saw no
// samples collapses to 0.
type accumulator struct {
	seen     bool
	sum      float64
	count    int
	max      float64
	min      float64
	latest   float64
	latestAt time.Time
}

func (a *accumulator) fold(value float64, at time.Time) {
	if !a.seen {
		a.max = value
		a.min = value
		a.seen = true
	} else {
		if value > a.max {
			a.max = value
		}
		if value < a.min {
			a.min = value
		}
	}
	a.sum += value
	a.count++
	if a.latestAt.IsZero() || at.After(a.latestAt) {
		a.latest = value
		a.latestAt = at
	}
}

func (a *accumulator) collapse(reduction Reduction) float64 {
	if !a.seen {
		return 0
	}
	switch reduction {
	case ReductionSum:
		return a.sum
	case ReductionAvg:
		return a.sum / float64(a.count)
	case ReductionMin:
		return a.min
	case ReductionMax:
		return a.max
	case ReductionLatest:
		return a.latest
	}
	return 0
}

// Aggregate reduces signed samples into per-unit quantities using the
// mappings' reductions (with the fixed kWh/kVA overrides), and slices the
// same values into per-slot quantities for every enabled time-of-use
// component whose unit basis matches. Results do not depend on sample
// order.
func Aggregate(samples []telemetry.Sample, mappings []SignalMapping, components []BillingComponent) Quantities {
	reductions := make(map[string]Reduction, len(mappings))
	unitAcc := make(map[string]*accumulator, len(mappings))
	for _, mapping := range mappings {
		reductions[mapping.Unit] = EffectiveReduction(mapping.Unit, mapping.Reduction)
		if unitAcc[mapping.Unit] == nil {
			unitAcc[mapping.Unit] = &accumulator{}
		}
	}

	touByUnit := make(map[string][]BillingComponent)
	touAcc := make(map[string]*accumulator)
	touReduction := make(map[string]Reduction)
	for _, component := range components {
		if !component.Enabled || component.Method != MethodTimeOfUse || component.UnitBasis == "" {
			continue
		}
		touByUnit[component.UnitBasis] = append(touByUnit[component.UnitBasis], component)
		for index := range component.TOUSlots {
			key := TierRateKey(component.ID, index)
			touAcc[key] = &accumulator{}
			touReduction[key] = reductions[component.UnitBasis]
		}
	}

	for _, sample := range samples {
		hour := sample.Timestamp.Hour()
		for _, mapping := range mappings {
			value, ok := sample.SignedField(mapping.FieldID)
			if !ok {
				continue
			}
			unitAcc[mapping.Unit].fold(value, sample.Timestamp)
			for _, component := range touByUnit[mapping.Unit] {
				for index, slot := range component.TOUSlots {
					if slot.ContainsHour(hour) {
						touAcc[TierRateKey(component.ID, index)].fold(value, sample.Timestamp)
					}
				}
			}
		}
	}

	quantities := Quantities{
		Units: make(map[string]float64, len(unitAcc)),
		TOU:   make(map[string]float64, len(touAcc)),
	}
	for unit, acc := range unitAcc {
		quantities.Units[unit] = acc.collapse(reductions[unit])
	}
	for key, acc := range touAcc {
		quantities.TOU[key] = acc.collapse(touReduction[key])
	}
	return quantities
}
