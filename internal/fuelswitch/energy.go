package fuelswitch

import (
	"fmt"

	"go.uber.org/zap"

	"austimes-tools/internal/etable"
)

// EnergyTable is the raw wide-by-year input with resolved column indices.
type EnergyTable struct {
	tab   *etable.Table
	years []etable.YearColumn

	scen      int
	region    int
	sector    int
	process   int
	commodity int
	varbl     int
	fuel      int
	unit      int
	hydrogen  int
}

// NewEnergyTable validates and indexes a parsed input table against the
// configured column names. The process, commodity and variable-kind
// columns plus at least one reporting-year column are required; other
// expected columns degrade to nulls with a warning when absent.
func NewEnergyTable(t *etable.Table, cols ColumnNames, log *zap.Logger) (*EnergyTable, error) {
	if err := t.Require(cols.Process, cols.Commodity, cols.VariableKind); err != nil {
		return nil, err
	}
	years := t.YearColumns()
	if len(years) == 0 {
		return nil, fmt.Errorf("no reporting-year columns: %w", etable.ErrMissingColumn)
	}

	et := &EnergyTable{
		tab:       t,
		years:     years,
		scen:      optionalColumn(t, cols.Scenario, log),
		region:    optionalColumn(t, cols.Region, log),
		sector:    optionalColumn(t, cols.Sector, log),
		process:   t.ColumnIndex(cols.Process),
		commodity: t.ColumnIndex(cols.Commodity),
		varbl:     t.ColumnIndex(cols.VariableKind),
		fuel:      optionalColumn(t, cols.Fuel, log),
		unit:      optionalColumn(t, cols.Unit, log),
		hydrogen:  optionalColumn(t, cols.HydrogenSource, log),
	}
	return et, nil
}

func optionalColumn(t *etable.Table, name string, log *zap.Logger) int {
	if name == "" {
		return -1
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		log.Warn("expected column missing", zap.String("column", name))
	}
	return idx
}

// Len returns the number of data rows.
func (et *EnergyTable) Len() int { return len(et.tab.Rows) }

// Years lists the reporting-year columns in table order.
func (et *EnergyTable) Years() []etable.YearColumn { return et.years }

func (et *EnergyTable) cellString(row, col int) string {
	if col < 0 {
		return ""
	}
	cell := et.tab.Cell(row, col)
	if !cell.Valid {
		return ""
	}
	return cell.Value
}

func (et *EnergyTable) cellFloat(row, col int) (float64, bool) {
	if col < 0 {
		return 0, false
	}
	return et.tab.Cell(row, col).Float()
}
