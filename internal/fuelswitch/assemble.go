package fuelswitch

import (
	"sort"
	"strconv"

	"austimes-tools/internal/etable"
)

// outputColumns is the merged output schema, in writing order.
var outputColumns = []string{
	"scen",
	"region",
	"subsector",
	"process-group",
	"year",
	"unit",
	"hydrogen_source",
	"fuel-switched-from",
	"fuel-switched-to",
	"value",
	"entry_type",
}

// unknownMarker fills dimension columns that carry no structural value for
// a row, such as the hydrogen source of non-hydrogen flows.
const unknownMarker = "unknown"

// OutputRow is one long-format attributed flow of the merged output.
type OutputRow struct {
	Scenario       string
	Region         string
	Subsector      string
	Group          string
	Year           int
	Unit           string
	HydrogenSource string
	From           Fuel
	To             Fuel
	Value          float64
	Entry          EntryType
}

// AssembleOutput melts the classified sector tables to long format, merges
// in the reconciled industry flows, deduplicates full-dimension duplicates
// by summing and sorts the result. Zero-valued rows, non-terminal
// classifier categories and the reconciler's efficiency-improvement
// residue are dropped here.
func AssembleOutput(classified []ClassifiedRow, industry []FuelFlow) []OutputRow {
	type dimKey struct {
		scenario, region, subsector, group string
		year                               int
		unit, hydrogen                     string
		from, to                           Fuel
		entry                              EntryType
	}
	sums := make(map[dimKey]float64)
	var order []dimKey

	add := func(key dimKey, value float64) {
		if value == 0 {
			return
		}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += value
	}

	for _, row := range classified {
		if !reportableEntryTypes[row.Entry] {
			continue
		}
		hydrogen := row.HydrogenSource
		if hydrogen == "" {
			hydrogen = unknownMarker
		}
		years := make([]int, 0, len(row.Values))
		for year := range row.Values {
			years = append(years, year)
		}
		sort.Ints(years)
		for _, year := range years {
			add(dimKey{
				scenario:  row.Scenario,
				region:    row.Region,
				subsector: row.Sector,
				group:     row.Group,
				year:      year,
				unit:      row.Unit,
				hydrogen:  hydrogen,
				from:      row.From,
				to:        row.To,
				entry:     row.Entry,
			}, row.Values[year])
		}
	}

	for _, flow := range industry {
		if flow.Entry == EntryEfficiencyImprovement {
			continue
		}
		add(dimKey{
			scenario:  flow.Scenario,
			region:    flow.Region,
			subsector: flow.Subsector,
			group:     flow.Group,
			year:      flow.Year,
			unit:      flow.Unit,
			hydrogen:  unknownMarker,
			from:      flow.From,
			to:        flow.To,
			entry:     flow.Entry,
		}, flow.Value)
	}

	rows := make([]OutputRow, 0, len(order))
	for _, key := range order {
		value := sums[key]
		if value == 0 {
			continue
		}
		rows = append(rows, OutputRow{
			Scenario:       key.scenario,
			Region:         key.region,
			Subsector:      key.subsector,
			Group:          key.group,
			Year:           key.year,
			Unit:           key.unit,
			HydrogenSource: key.hydrogen,
			From:           key.from,
			To:             key.to,
			Value:          value,
			Entry:          key.entry,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return outputLess(rows[i], rows[j]) })
	return rows
}

func outputLess(a, b OutputRow) bool {
	if a.Scenario != b.Scenario {
		return a.Scenario < b.Scenario
	}
	if a.Region != b.Region {
		return a.Region < b.Region
	}
	if a.Subsector != b.Subsector {
		return a.Subsector < b.Subsector
	}
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.From != b.From {
		return fuelLess(a.From, b.From)
	}
	if a.To != b.To {
		return fuelLess(a.To, b.To)
	}
	return a.Entry < b.Entry
}

// OutputTable converts assembled rows into a serializable table.
func OutputTable(rows []OutputRow) *etable.Table {
	t := etable.New(outputColumns...)
	for _, row := range rows {
		t.AppendRow(
			etable.StringCell(row.Scenario),
			etable.StringCell(row.Region),
			etable.StringCell(row.Subsector),
			etable.StringCell(row.Group),
			etable.StringCell(strconv.Itoa(row.Year)),
			etable.StringCell(row.Unit),
			etable.StringCell(row.HydrogenSource),
			etable.StringCell(string(row.From)),
			etable.StringCell(string(row.To)),
			etable.FloatCell(row.Value),
			etable.StringCell(string(row.Entry)),
		)
	}
	return t
}

// WriteOutputCSV writes the merged output to path.
func WriteOutputCSV(path string, rows []OutputRow) error {
	return etable.WriteCSV(path, OutputTable(rows))
}
