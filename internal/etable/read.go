package etable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"austimes-tools/internal/encoding"
)

// ReadFile parses path into a table, dispatching on the file extension.
// sheet selects a workbook sheet; empty means the first sheet. CSV input
// ignores sheet.
func ReadFile(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ReadWorkbook(path, sheet)
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		t, err := ReadCSV(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	}
}

// ReadCSV parses CSV content. The input is normalized to UTF-8 first;
// ragged rows are tolerated and padded with nulls.
func ReadCSV(r io.Reader) (*Table, error) {
	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(utf8Reader)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// ReadWorkbook parses one sheet of an Excel workbook; empty sheet means
// the first sheet in the file.
func ReadWorkbook(path, sheet string) (*Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if sheet == "" {
		sheet = file.GetSheetName(0)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	t, err := FromRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return t, nil
}
