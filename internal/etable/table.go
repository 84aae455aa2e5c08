// Package etable holds the in-memory table model shared by the tools:
// wide-by-year spreadsheet/CSV content with explicit nullable cells.
package etable

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyTable is returned when a source has no header row.
	ErrEmptyTable = errors.New("etable: no header row")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("etable: missing column")
)

// Table is an in-memory, column-ordered view of one sheet or CSV file.
// Derived tables are always new values; a Table is never mutated after the
// reshaping step that produced it.
type Table struct {
	Columns []string
	Rows    [][]Cell

	index map[string]int
}

// YearColumn is one wide-format reporting-year column.
type YearColumn struct {
	Name  string
	Year  int
	Index int
}

// New builds an empty table with the given header.
func New(columns ...string) *Table {
	t := &Table{Columns: make([]string, len(columns))}
	copy(t.Columns, columns)
	return t
}

// FromRecords builds a table from raw string records; the first record is
// the header. Short rows are padded with nulls, long rows truncated.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	t := New(header...)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		cells := make([]Cell, len(record))
		for i, field := range record {
			cells[i] = StringCell(field)
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

// AppendRow adds one row, padding or truncating to the header width.
func (t *Table) AppendRow(cells ...Cell) {
	row := make([]Cell, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the position of the named column, case-insensitive,
// or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil || len(t.index) != len(t.Columns) {
		t.index = make(map[string]int, len(t.Columns))
		for i, column := range t.Columns {
			t.index[strings.ToLower(column)] = i
		}
	}
	idx, ok := t.index[strings.ToLower(name)]
	if !ok {
		return -1
	}
	return idx
}

// Require verifies the named columns exist.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			return &MissingColumnError{Column: name}
		}
	}
	return nil
}

// Cell returns the value at (row, col), null when out of range.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][col]
}

// YearColumns lists the all-digit headers in table order.
func (t *Table) YearColumns() []YearColumn {
	var years []YearColumn
	for i, column := range t.Columns {
		year, ok := parseYear(column)
		if !ok {
			continue
		}
		years = append(years, YearColumn{Name: column, Year: year, Index: i})
	}
	return years
}

// Rename changes a column header in place; reports whether it existed.
func (t *Table) Rename(from, to string) bool {
	idx := t.ColumnIndex(from)
	if idx < 0 {
		return false
	}
	t.Columns[idx] = to
	t.index = nil
	return true
}

// Drop removes the named column and its cells; reports whether it existed.
func (t *Table) Drop(name string) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for r, row := range t.Rows {
		if idx < len(row) {
			t.Rows[r] = append(row[:idx], row[idx+1:]...)
		}
	}
	t.index = nil
	return true
}

// Filter returns a new table holding the rows for which keep returns
// true.
func (t *Table) Filter(keep func(row []Cell) bool) *Table {
	out := New(t.Columns...)
	for _, row := range t.Rows {
		if keep(row) {
			out.AppendRow(row...)
		}
	}
	return out
}

// Melt reshapes the wide-by-year table to long format: one output row per
// (id columns, reporting year), with the year and its cell appended as the
// named columns. Null year cells are carried through; dropping them is the
// caller's decision.
func (t *Table) Melt(idCols []string, yearName, valueName string) (*Table, error) {
	indices := make([]int, len(idCols))
	for i, name := range idCols {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, &MissingColumnError{Column: name}
		}
		indices[i] = idx
	}
	years := t.YearColumns()

	out := New(append(append([]string{}, idCols...), yearName, valueName)...)
	cells := make([]Cell, len(idCols)+2)
	for r := range t.Rows {
		for _, year := range years {
			for i, idx := range indices {
				cells[i] = t.Cell(r, idx)
			}
			cells[len(idCols)] = StringCell(year.Name)
			cells[len(idCols)+1] = t.Cell(r, year.Index)
			out.AppendRow(cells...)
		}
	}
	return out, nil
}

// GroupSum collapses the table to one row per distinct dimension tuple,
// summing the value column; null and non-numeric value cells contribute
// nothing. Groups keep first-seen order.
func (t *Table) GroupSum(dimCols []string, valueCol string) (*Table, error) {
	indices := make([]int, len(dimCols))
	for i, name := range dimCols {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, &MissingColumnError{Column: name}
		}
		indices[i] = idx
	}
	valueIdx := t.ColumnIndex(valueCol)
	if valueIdx < 0 {
		return nil, &MissingColumnError{Column: valueCol}
	}

	sums := make(map[string]float64)
	dims := make(map[string][]Cell)
	var order []string
	var key strings.Builder
	for r := range t.Rows {
		key.Reset()
		for _, idx := range indices {
			key.WriteString(t.Cell(r, idx).Serialized())
			key.WriteByte('\x1f')
		}
		k := key.String()
		if _, ok := dims[k]; !ok {
			cells := make([]Cell, len(indices))
			for i, idx := range indices {
				cells[i] = t.Cell(r, idx)
			}
			dims[k] = cells
			order = append(order, k)
		}
		if v, ok := t.Cell(r, valueIdx).Float(); ok {
			sums[k] += v
		}
	}

	out := New(append(append([]string{}, dimCols...), valueCol)...)
	for _, k := range order {
		out.AppendRow(append(append([]Cell{}, dims[k]...), FloatCell(sums[k]))...)
	}
	return out, nil
}

// Override replaces the dst column with the back-filled src column: null
// src cells take the next valid src value further down, trailing nulls
// stay null. The dst column is appended when absent. Reports whether src
// existed.
func (t *Table) Override(dst, src string) bool {
	srcIdx := t.ColumnIndex(src)
	if srcIdx < 0 {
		return false
	}
	dstIdx := t.ColumnIndex(dst)
	if dstIdx < 0 {
		t.Columns = append(t.Columns, dst)
		t.index = nil
		dstIdx = len(t.Columns) - 1
		for r, row := range t.Rows {
			t.Rows[r] = append(row, Cell{})
		}
	}
	var carry Cell
	for r := len(t.Rows) - 1; r >= 0; r-- {
		row := t.Rows[r]
		if srcIdx < len(row) && row[srcIdx].Valid {
			carry = row[srcIdx]
		}
		if dstIdx < len(row) {
			row[dstIdx] = carry
		}
	}
	return true
}

// MissingColumnError wraps ErrMissingColumn with the column name.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "etable: missing column " + e.Column
}

// Is makes the error match ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

func parseYear(name string) (int, bool) {
	if len(name) != 4 {
		return 0, false
	}
	year := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		year = year*10 + int(r-'0')
	}
	return year, true
}
