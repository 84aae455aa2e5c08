package fuelswitch

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

const (
	// degenerateProduction is the base-year production floor below which
	// no switching inference is attempted.
	degenerateProduction = 1e-3
	// zeroTolerance clamps float dust to exactly zero.
	zeroTolerance = 1e-12
	// conservationTolerance bounds the relative error of the flow balance.
	conservationTolerance = 1e-8
)

// FuelFlow is one attributed energy flow of a reconciled process group.
type FuelFlow struct {
	Scenario  string
	Region    string
	Subsector string
	Group     string
	Year      int
	Unit      string
	From      Fuel
	To        Fuel
	Value     float64
	Entry     EntryType
}

// ReconcileInput carries one (scenario, region, subsector, group, year)
// reconciliation: the baseline and target fuel mixes, the physical output
// of both years and the group's eligibility class.
type ReconcileInput struct {
	Scenario  string
	Region    string
	Subsector string
	Group     string
	Year      int
	Unit      string

	BaselineConsumption map[Fuel]float64
	TargetConsumption   map[Fuel]float64
	BaselineProduction  float64
	TargetProduction    float64
	Class               EligibilityClass
}

// ReconcileResult is the attributed flow set for one tuple.
type ReconcileResult struct {
	Flows      []FuelFlow
	Degenerate bool
	// ConservationResidual is the relative balance error of the computed
	// path; zero on the degenerate path.
	ConservationResidual float64
}

// Reconciler attributes the change of a group's fuel mix, relative to the
// scaled baseline, to switched and unswitched flows.
type Reconciler struct {
	log *zap.Logger
}

// NewReconciler returns a reconciler logging through log.
func NewReconciler(log *zap.Logger) *Reconciler {
	return &Reconciler{log: log}
}

// Reconcile runs the closed-form proportional allocation for one tuple.
//
// The scaled baseline is what consumption would be with the base-year fuel
// mix at target-year output. Each fuel's diff against it is resolved into
// pairwise switches (eligible losers by gainers, proportional split),
// same-fuel efficiency improvements for unmatched deficits, and remaining
// consumption for the untouched part of the baseline. Gains no loser can
// explain are demand growth and produce no flow.
func (r *Reconciler) Reconcile(in ReconcileInput) (ReconcileResult, error) {
	if in.BaselineProduction <= degenerateProduction {
		r.log.Warn("degenerate baseline production, no switching inferred",
			zap.String("tuple", in.tuple()),
			zap.Float64("baseline_production", in.BaselineProduction))
		return ReconcileResult{Flows: in.remainingOnly(), Degenerate: true}, nil
	}

	scale := in.TargetProduction / in.BaselineProduction
	fuels := unionFuels(in.BaselineConsumption, in.TargetConsumption)

	scaled := make(map[Fuel]float64, len(fuels))
	diff := make(map[Fuel]float64, len(fuels))
	var scaledTotal float64
	for _, fuel := range fuels {
		s := in.BaselineConsumption[fuel] * scale
		scaled[fuel] = s
		scaledTotal += s
		diff[fuel] = in.TargetConsumption[fuel] - s
	}

	var fromFuels, toFuels []Fuel
	loss := make(map[Fuel]float64)
	gain := make(map[Fuel]float64)
	var totalLoss, totalGain float64
	for _, fuel := range fuels {
		switch {
		case diff[fuel] < -zeroTolerance && in.Class.Contains(fuel):
			fromFuels = append(fromFuels, fuel)
			loss[fuel] = -diff[fuel]
			totalLoss += -diff[fuel]
		case diff[fuel] > zeroTolerance:
			toFuels = append(toFuels, fuel)
			gain[fuel] = diff[fuel]
			totalGain += diff[fuel]
		}
	}

	switch {
	case len(fromFuels) > 1 && len(toFuels) > 1:
		r.log.Warn("ambiguous many-from/many-to switch, proportional split applied",
			zap.String("tuple", in.tuple()),
			zap.Int("from_fuels", len(fromFuels)),
			zap.Int("to_fuels", len(toFuels)))
	case len(fromFuels) > 0 && len(toFuels) > 0:
		r.log.Debug("good fuel switch",
			zap.String("tuple", in.tuple()),
			zap.Int("from_fuels", len(fromFuels)),
			zap.Int("to_fuels", len(toFuels)))
	}

	// Pairwise allocation. Both mirrored quantities must be strictly
	// positive; the smaller one is allocated, which keeps every running
	// diff from crossing zero.
	var switched []FuelFlow
	switchedOut := make(map[Fuel]float64, len(fromFuels))
	if totalLoss > 0 && totalGain > 0 {
		for _, from := range fromFuels {
			for _, to := range toFuels {
				qFrom := loss[from] * (gain[to] / totalGain)
				qTo := gain[to] * (loss[from] / totalLoss)
				if qFrom <= 0 || qTo <= 0 {
					return ReconcileResult{}, fmt.Errorf("%s: %s to %s: qFrom=%g qTo=%g: %w",
						in.tuple(), from, to, qFrom, qTo, ErrNonPositiveAllocation)
				}
				alloc := math.Min(qFrom, qTo)
				entry := EntryFuelSwitch
				if to == FuelElectricity {
					entry = EntryElectrification
				}
				switched = append(switched, in.flow(from, to, alloc, entry))
				switchedOut[from] += alloc
				diff[from] += alloc
				diff[to] -= alloc
			}
		}
	}

	// Residual deficits become same-fuel efficiency improvements; residual
	// gains are demand growth and stay unattributed. Either way the diff is
	// forced to exactly zero.
	efficiency := make(map[Fuel]float64, len(fuels))
	for _, fuel := range fuels {
		residual := diff[fuel]
		switch {
		case residual < -zeroTolerance:
			efficiency[fuel] = -residual
		case residual > zeroTolerance:
			r.log.Debug("unattributed consumption growth",
				zap.String("tuple", in.tuple()),
				zap.String("fuel", string(fuel)),
				zap.Float64("residual", residual))
		}
		diff[fuel] = 0
	}

	flows := make([]FuelFlow, 0, len(switched)+2*len(fuels))
	var outputTotal float64
	for _, flow := range switched {
		flow.Value = clampZero(flow.Value)
		if flow.Value < 0 {
			return ReconcileResult{}, fmt.Errorf("%s: switched %s to %s = %g: %w",
				in.tuple(), flow.From, flow.To, flow.Value, ErrNegativeFlow)
		}
		if flow.Value == 0 {
			continue
		}
		flows = append(flows, flow)
		outputTotal += flow.Value
	}
	for _, fuel := range fuels {
		remaining := clampZero(scaled[fuel] - switchedOut[fuel] - efficiency[fuel])
		if remaining < 0 {
			return ReconcileResult{}, fmt.Errorf("%s: remaining %s = %g: %w",
				in.tuple(), fuel, remaining, ErrNegativeFlow)
		}
		if remaining > 0 {
			flows = append(flows, in.flow(fuel, fuel, remaining, EntryRemainingConsumption))
			outputTotal += remaining
		}
	}
	for _, fuel := range fuels {
		saved := clampZero(efficiency[fuel])
		if saved > 0 {
			flows = append(flows, in.flow(fuel, fuel, saved, EntryEfficiencyImprovement))
			outputTotal += saved
		}
	}

	// Conservation: attributed flows must decompose the scaled baseline.
	residual := math.Abs(outputTotal - scaledTotal)
	if math.Abs(scaledTotal) > 0 {
		residual /= math.Abs(scaledTotal)
	}
	if residual > conservationTolerance {
		return ReconcileResult{}, fmt.Errorf("%s: flows sum to %g, scaled baseline %g (residual %g): %w",
			in.tuple(), outputTotal, scaledTotal, residual, ErrConservation)
	}
	return ReconcileResult{Flows: flows, ConservationResidual: residual}, nil
}

// remainingOnly records all target consumption as remaining, the fallback
// for untrustworthy base years.
func (in ReconcileInput) remainingOnly() []FuelFlow {
	fuels := make([]Fuel, 0, len(in.TargetConsumption))
	for fuel := range in.TargetConsumption {
		fuels = append(fuels, fuel)
	}
	sortFuels(fuels)

	var flows []FuelFlow
	for _, fuel := range fuels {
		value := clampZero(in.TargetConsumption[fuel])
		if value > 0 {
			flows = append(flows, in.flow(fuel, fuel, value, EntryRemainingConsumption))
		}
	}
	return flows
}

func (in ReconcileInput) flow(from, to Fuel, value float64, entry EntryType) FuelFlow {
	return FuelFlow{
		Scenario:  in.Scenario,
		Region:    in.Region,
		Subsector: in.Subsector,
		Group:     in.Group,
		Year:      in.Year,
		Unit:      in.Unit,
		From:      from,
		To:        to,
		Value:     value,
		Entry:     entry,
	}
}

func (in ReconcileInput) tuple() string {
	return fmt.Sprintf("%s/%s/%s/%s/%d", in.Scenario, in.Region, in.Subsector, in.Group, in.Year)
}

func unionFuels(a, b map[Fuel]float64) []Fuel {
	seen := make(map[Fuel]bool, len(a)+len(b))
	var fuels []Fuel
	for fuel := range a {
		if !seen[fuel] {
			seen[fuel] = true
			fuels = append(fuels, fuel)
		}
	}
	for fuel := range b {
		if !seen[fuel] {
			seen[fuel] = true
			fuels = append(fuels, fuel)
		}
	}
	sortFuels(fuels)
	return fuels
}

func clampZero(v float64) float64 {
	if math.Abs(v) <= zeroTolerance {
		return 0
	}
	return v
}
