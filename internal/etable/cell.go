package etable

import (
	"strconv"
	"strings"
)

// nullSentinel is how model output files spell a structurally missing value.
const nullSentinel = "-"

// Cell is one nullable table value. Empty cells and the "-" sentinel parse
// as null; nulls serialize back as empty cells. The null/sentinel
// conversion happens only at the read and write edges, never in between.
type Cell struct {
	Value string
	Valid bool
}

// NullCell returns a structurally missing value.
func NullCell() Cell { return Cell{} }

// StringCell builds a cell from raw file content.
func StringCell(value string) Cell {
	value = strings.TrimSpace(value)
	if value == "" || value == nullSentinel {
		return Cell{}
	}
	return Cell{Value: value, Valid: true}
}

// FloatCell builds a numeric cell.
func FloatCell(value float64) Cell {
	return Cell{Value: FormatFloat(value), Valid: true}
}

// Float parses the cell as float64; ok is false for nulls and non-numeric
// content.
func (c Cell) Float() (float64, bool) {
	if !c.Valid {
		return 0, false
	}
	value, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Serialized renders the cell for file output.
func (c Cell) Serialized() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// FormatFloat renders a value the way the model CSVs carry numbers: the
// shortest decimal form that round-trips.
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
