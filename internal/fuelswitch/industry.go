package fuelswitch

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// defaultEnergyUnit is assumed when the industry slice carries no unit
// column.
const defaultEnergyUnit = "PJ"

// IndustryStats summarizes one reconciliation sweep for the run report.
type IndustryStats struct {
	GroupsProcessed         int
	TuplesReconciled        int
	DegenerateBaselines     int
	MaxConservationResidual float64
}

type industrySeries struct {
	scenario  string
	region    string
	subsector string
	group     string
	class     EligibilityClass
	unit      string

	consumption map[int]map[Fuel]float64
	production  map[int]float64
}

// BuildIndustryFlows reconciles the heavy-industry slice of the energy
// table. Rows are selected by process prefix and assigned to every
// subsector and process group whose substring rules match, so broad groups
// like "all" overlap the narrow ones. Per (scenario, region, subsector,
// group) it accumulates fuel consumption and physical production by year,
// then attributes each later year's mix shift against the baseline year.
func BuildIndustryFlows(et *EnergyTable, cfg Config, rec *Reconciler, log *zap.Logger) ([]FuelFlow, IndustryStats, error) {
	type seriesKey struct {
		scenario, region, subsector, group string
	}
	series := make(map[seriesKey]*industrySeries)
	var order []seriesKey
	unmatched := make(map[string]bool)
	var skippedFuel int

	for i := 0; i < et.Len(); i++ {
		process := et.cellString(i, et.process)
		if !hasPrefixAny(cfg.Industry.ProcessPrefixes, process) {
			continue
		}
		kind := et.cellString(i, et.varbl)
		if kind != cfg.Industry.ConsumptionKind && kind != cfg.Industry.ProductionKind {
			continue
		}

		lower := strings.ToLower(process)
		matchedSubsector := false
		for _, sub := range cfg.Industry.Subsectors {
			if !matchAny(sub.Match, lower) {
				continue
			}
			matchedSubsector = true
			for _, group := range sub.Groups {
				if !matchAny(group.Match, lower) {
					continue
				}
				key := seriesKey{
					scenario:  et.cellString(i, et.scen),
					region:    et.cellString(i, et.region),
					subsector: sub.Name,
					group:     group.Name,
				}
				s, ok := series[key]
				if !ok {
					s = &industrySeries{
						scenario:    key.scenario,
						region:      key.region,
						subsector:   key.subsector,
						group:       key.group,
						class:       group.Fuels,
						unit:        defaultEnergyUnit,
						consumption: make(map[int]map[Fuel]float64),
						production:  make(map[int]float64),
					}
					series[key] = s
					order = append(order, key)
				}
				if kind == cfg.Industry.ConsumptionKind {
					fuel := Fuel(et.cellString(i, et.fuel))
					if fuel == "" {
						skippedFuel++
						continue
					}
					if unit := et.cellString(i, et.unit); unit != "" {
						s.unit = unit
					}
					for _, year := range et.years {
						if v, ok := et.cellFloat(i, year.Index); ok {
							mix := s.consumption[year.Year]
							if mix == nil {
								mix = make(map[Fuel]float64)
								s.consumption[year.Year] = mix
							}
							mix[fuel] += v
						}
					}
				} else {
					for _, year := range et.years {
						if v, ok := et.cellFloat(i, year.Index); ok {
							s.production[year.Year] += v
						}
					}
				}
			}
		}
		if !matchedSubsector {
			unmatched[process] = true
		}
	}

	if skippedFuel > 0 {
		log.Warn("industry consumption rows without a fuel skipped",
			zap.Int("rows", skippedFuel))
	}
	if len(unmatched) > 0 {
		log.Warn("industry processes outside every subsector rule",
			zap.Int("processes", len(unmatched)))
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.scenario != b.scenario {
			return a.scenario < b.scenario
		}
		if a.region != b.region {
			return a.region < b.region
		}
		if a.subsector != b.subsector {
			return a.subsector < b.subsector
		}
		return a.group < b.group
	})

	var flows []FuelFlow
	var stats IndustryStats
	for _, key := range order {
		s := series[key]
		years := s.years()
		if len(years) < 2 {
			continue
		}
		stats.GroupsProcessed++

		baseYear := years[0]
		if cfg.BaselineYear > 0 {
			if containsYear(years, cfg.BaselineYear) {
				baseYear = cfg.BaselineYear
			} else {
				log.Warn("pinned baseline year absent for group, using earliest",
					zap.Int("baseline_year", cfg.BaselineYear),
					zap.Int("earliest", years[0]),
					zap.String("subsector", s.subsector),
					zap.String("group", s.group))
			}
		}

		for _, year := range years {
			if year <= baseYear {
				continue
			}
			in := ReconcileInput{
				Scenario:            s.scenario,
				Region:              s.region,
				Subsector:           s.subsector,
				Group:               s.group,
				Year:                year,
				Unit:                s.unit,
				BaselineConsumption: s.consumption[baseYear],
				TargetConsumption:   s.consumption[year],
				BaselineProduction:  s.production[baseYear],
				TargetProduction:    s.production[year],
				Class:               s.class,
			}
			res, err := rec.Reconcile(in)
			if err != nil {
				return nil, stats, err
			}
			stats.TuplesReconciled++
			if res.Degenerate {
				stats.DegenerateBaselines++
			}
			if res.ConservationResidual > stats.MaxConservationResidual {
				stats.MaxConservationResidual = res.ConservationResidual
			}
			flows = append(flows, res.Flows...)
		}
	}
	return flows, stats, nil
}

// years returns the sorted union of years seen on either side of the
// series.
func (s *industrySeries) years() []int {
	seen := make(map[int]bool, len(s.consumption)+len(s.production))
	var years []int
	for year := range s.consumption {
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	for year := range s.production {
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}

func hasPrefixAny(prefixes []string, s string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// matchAny reports whether the lowercased subject contains any of the
// patterns; an empty pattern list matches everything.
func matchAny(patterns []string, lower string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
