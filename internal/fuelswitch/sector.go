package fuelswitch

import (
	"fmt"
	"sort"
	"strings"
)

// ClassifiedRow is one classified, group-summed observation of a
// classified sector, still wide by year.
type ClassifiedRow struct {
	Scenario       string
	Region         string
	Sector         string
	Group          string
	From           Fuel
	To             Fuel
	Entry          EntryType
	Unit           string
	HydrogenSource string
	Values         map[int]float64
}

type commodityParts struct {
	group string
	fuel  Fuel
}

// BuildSectorTable extracts one classified sector from the energy table:
// it filters rows to the sector's commodity tag and variable kinds,
// derives the inbound fuel from each commodity name, classifies the supply
// process of every surviving row and sums values per classified group.
// Classification and invariant failures abort the run.
func BuildSectorTable(et *EnergyTable, profile SectorProfile, classifier *Classifier) ([]ClassifiedRow, error) {
	kinds := make(map[string]bool, len(profile.VariableKinds))
	for _, kind := range profile.VariableKinds {
		kinds[kind] = true
	}
	parsed := make(map[string]commodityParts)

	type rowKey struct {
		scen, region, group string
		from, to            Fuel
		entry               EntryType
		unit, hydrogen      string
	}
	acc := make(map[rowKey]map[int]float64)
	var order []rowKey

	for i := 0; i < et.Len(); i++ {
		commodity := et.cellString(i, et.commodity)
		if commodity == "" || !strings.HasPrefix(commodity, profile.Tag) {
			continue
		}
		if !kinds[et.cellString(i, et.varbl)] {
			continue
		}

		parts, ok := parsed[commodity]
		if !ok {
			var err error
			parts, err = splitCommodity(profile, commodity)
			if err != nil {
				return nil, err
			}
			parsed[commodity] = parts
		}

		process := et.cellString(i, et.process)
		to, entry, err := classifier.Classify(process, parts.fuel)
		if err != nil {
			return nil, fmt.Errorf("sector %s: %w", profile.Name, err)
		}
		if err := ValidateClassification(parts.fuel, to, entry); err != nil {
			return nil, fmt.Errorf("sector %s: process %q: %w", profile.Name, process, err)
		}

		key := rowKey{
			scen:     et.cellString(i, et.scen),
			region:   et.cellString(i, et.region),
			group:    parts.group,
			from:     parts.fuel,
			to:       to,
			entry:    entry,
			unit:     et.cellString(i, et.unit),
			hydrogen: et.cellString(i, et.hydrogen),
		}
		values, ok := acc[key]
		if !ok {
			values = make(map[int]float64, len(et.years))
			acc[key] = values
			order = append(order, key)
		}
		for _, year := range et.years {
			if v, ok := et.cellFloat(i, year.Index); ok {
				values[year.Year] += v
			}
		}
	}

	rows := make([]ClassifiedRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, ClassifiedRow{
			Scenario:       key.scen,
			Region:         key.region,
			Sector:         profile.Name,
			Group:          key.group,
			From:           key.from,
			To:             key.to,
			Entry:          key.entry,
			Unit:           key.unit,
			HydrogenSource: key.hydrogen,
			Values:         acc[key],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return classifiedLess(rows[i], rows[j]) })
	return rows, nil
}

// splitCommodity extracts the process group and inbound fuel from one
// commodity name using the sector's split rule.
func splitCommodity(profile SectorProfile, commodity string) (commodityParts, error) {
	switch profile.SplitRule {
	case SplitHyphenSuffix:
		idx := strings.LastIndexByte(commodity, '-')
		if idx <= 0 || idx == len(commodity)-1 {
			return commodityParts{}, fmt.Errorf("%w: commodity %q has no fuel suffix", ErrUnknownFuelSuffix, commodity)
		}
		suffix := commodity[idx+1:]
		fuel, ok := profile.FuelSuffixes[suffix]
		if !ok {
			return commodityParts{}, fmt.Errorf("%w: %q in commodity %q", ErrUnknownFuelSuffix, suffix, commodity)
		}
		return commodityParts{group: commodity[:idx], fuel: fuel}, nil

	case SplitHyphenInitial:
		idx := strings.LastIndexByte(commodity, '-')
		if idx <= 0 || idx == len(commodity)-1 {
			return commodityParts{}, fmt.Errorf("%w: commodity %q has no fuel token", ErrUnknownFuelSuffix, commodity)
		}
		letter := commodity[idx+1 : idx+2]
		fuel, ok := profile.FuelSuffixes[letter]
		if !ok {
			return commodityParts{}, fmt.Errorf("%w: %q in commodity %q", ErrUnknownFuelSuffix, letter, commodity)
		}
		return commodityParts{group: commodity[:idx], fuel: fuel}, nil

	case SplitTagStrip:
		code := strings.TrimPrefix(commodity, profile.Tag)
		if code == "" {
			return commodityParts{}, fmt.Errorf("%w: commodity %q is bare tag", ErrUnknownFuelSuffix, commodity)
		}
		fuel, ok := profile.FuelSuffixes[code]
		if !ok {
			return commodityParts{}, fmt.Errorf("%w: %q in commodity %q", ErrUnknownFuelSuffix, code, commodity)
		}
		return commodityParts{group: profile.Tag, fuel: fuel}, nil

	default:
		return commodityParts{}, fmt.Errorf("%w: split rule %q", ErrInvalidConfig, profile.SplitRule)
	}
}

func classifiedLess(a, b ClassifiedRow) bool {
	if a.Scenario != b.Scenario {
		return a.Scenario < b.Scenario
	}
	if a.Region != b.Region {
		return a.Region < b.Region
	}
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	if a.From != b.From {
		return fuelLess(a.From, b.From)
	}
	if a.To != b.To {
		return fuelLess(a.To, b.To)
	}
	return a.Entry < b.Entry
}
