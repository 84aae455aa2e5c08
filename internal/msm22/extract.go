// Package msm22 splits an MSM22 results workbook into per-sheet CSV files
// with the column conventions downstream tooling expects.
package msm22

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"austimes-tools/internal/etable"
)

// infoSheet is the metadata sheet every results workbook carries.
const infoSheet = "Info"

// sheetExport maps one workbook sheet to its CSV file stem. Earlier
// entries win when several stems point at the same sheet.
type sheetExport struct {
	Stem  string
	Sheet string
}

var sheetExports = []sheetExport{
	{"CO2 emissions - Industry - Process", "MSM22 CO2 emis-ind-proc"},
	{"CO2 emissions - non bldg+ind", "MSM22 emis-non-bldg+ind"},
	{"CO2 emissions Commercial", "MSM22 Commercial FE with EnInt"},
	{"CO2 emissions Industry", "MSM22 Industry FE with EnInt"},
	{"Elec capacity and generation", "MSM22 Elec cap and gen"},
	{"Elec fuels", "MSM22 Elec fuels"},
	{"EnEff Buildings", "MSM22 EnEff Buildings"},
	{"EnEff Industry", "MSM22 EnEff Industry"},
	{"Fin Energy Commercial", "MSM22 Commercial FE with EnInt"},
	{"Fin Energy Industry", "MSM22 Industry FE with EnInt"},
	{"Fin Energy Residential", "MSM22 Fin energy res"},
	{"Fin energy Transport", "MSM22 Fin energy tra"},
	{"Fuels switched industry", "MSM22 Industry FE with EnInt"},
	{"Hydrogen capacity and generation", "MSM22 h2-cap-and-gen"},
	{"Hydrogen exports", "MSM22 Hydrogen exports"},
	{"Hydrogen fuels", "MSM22 Hydrogen fuels"},
}

// Options configures one extraction.
type Options struct {
	// Input is the results workbook.
	Input string
	// OutputDir receives the CSVs; empty means alongside the input file.
	OutputDir string
}

// Stats summarizes one extraction.
type Stats struct {
	Sheets  int
	Written []string
}

// Run extracts every data sheet of the workbook into its own CSV.
func Run(opts Options, log *zap.Logger) (Stats, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(opts.Input)
	}

	f, err := excelize.OpenFile(opts.Input)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", opts.Input, err)
	}
	defer func() { _ = f.Close() }()

	var stats Stats
	for _, sheet := range f.GetSheetList() {
		if sheet == infoSheet {
			log.Info("skipping info sheet")
			continue
		}
		log.Info("processing sheet", zap.String("sheet", sheet))

		rows, err := f.GetRows(sheet)
		if err != nil {
			return stats, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		// The first row is a title band; the real header sits below it.
		if len(rows) < 2 {
			log.Warn("sheet has no header below the title band, skipped",
				zap.String("sheet", sheet))
			continue
		}
		tab, err := etable.FromRecords(rows[1:])
		if err != nil {
			return stats, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		normalize(tab)

		path := filepath.Join(outputDir, exportName(sheet, log)+".csv")
		if err := etable.WriteCSV(path, tab); err != nil {
			return stats, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		stats.Sheets++
		stats.Written = append(stats.Written, path)
		log.Info("csv written", zap.String("path", path))
	}
	return stats, nil
}

// normalize applies the shared column conventions to one sheet table. The
// "-" null markers are already handled at the cell-parsing edge.
func normalize(t *etable.Table) {
	t.Rename("GrandTotal", "val")
	t.Drop("model")
	t.Drop("study")
	t.Rename("source_p", "source")
	t.Rename("sector_p", "sector")
	if t.Override("fuel", "fuel_override") {
		t.Drop("fuel_override")
	}
	if t.Override("isp_subregion", "isp_subregion_override") {
		t.Drop("isp_subregion_override")
	}
}

func exportName(sheet string, log *zap.Logger) string {
	for _, export := range sheetExports {
		if export.Sheet == sheet {
			return export.Stem
		}
	}
	stem := sanitizeSheetName(sheet)
	log.Warn("no export mapping for sheet, using sanitized name",
		zap.String("sheet", sheet), zap.String("stem", stem))
	return stem
}

// sanitizeSheetName lowercases the sheet name, replaces every
// non-alphanumeric rune with an underscore and strips the msm22_ prefix.
func sanitizeSheetName(sheet string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(sheet) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.ReplaceAll(b.String(), "msm22_", "")
}
