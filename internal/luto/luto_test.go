package luto_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"austimes-tools/internal/luto"
)

// writeRunWorkbook lays out one LUTO result workbook: a land-use column,
// year columns and the labelled total row, values in tCO2e.
func writeRunWorkbook(t *testing.T, dir, name string, years []int, totalsMt []float64) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Land use"))
	for i, year := range years {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, year))
	}
	require.NoError(t, f.SetCellValue(sheet, "A2", "Environmental plantings"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 12345.0))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Total carbon sequestration (tCO2e)"))
	for i, total := range totalsMt {
		cell, err := excelize.CoordinatesToCellName(i+2, 3)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, total*1e6))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
	require.NoError(t, f.Close())
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func cellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(cellValue(t, f, sheet, cell), 64)
	require.NoError(t, err)
	return v
}

func TestRunBuildsMarginalCurves(t *testing.T) {
	dir := t.TempDir()
	years := []int{2025, 2030, 2035}
	writeRunWorkbook(t, dir, "LUTO_cp25_hr5_capConOn.xlsx", years, []float64{10, 20, 40})
	writeRunWorkbook(t, dir, "2024-07_LUTO_cp50_hr5_run_capConOn_final.xlsx", years, []float64{15, 30, 50})
	writeRunWorkbook(t, dir, "LUTO_cp25_hr10_capConOn.xlsx", years, []float64{5, 8, 6})
	// Capacity-unconstrained runs and files without coordinates stay out.
	writeRunWorkbook(t, dir, "LUTO_cp75_hr5.xlsx", years, []float64{99, 99, 99})
	writeRunWorkbook(t, dir, "summary_2050.xlsx", years, []float64{99, 99, 99})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$LUTO_cp25_hr5_capConOn.xlsx"), []byte("lock"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("notes"), 0o644))

	stats, err := luto.Run(luto.Options{InputDir: dir}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesUsed)
	assert.Equal(t, 2, stats.FilesSkipped)
	assert.Equal(t, 3, stats.Runs)
	assert.Equal(t, 9, stats.Rows)

	f, err := excelize.OpenFile(filepath.Join(dir, "luto_processed.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	// Runs are ordered by hurdle rate then carbon price, years within.
	assert.Equal(t, "Carbon Price", cellValue(t, f, "Processed_Data", "A1"))
	assert.Equal(t, "Sequestration [MtCO2e]", cellValue(t, f, "Processed_Data", "E1"))
	assert.Equal(t, "25", cellValue(t, f, "Processed_Data", "A2"))
	assert.Equal(t, "5", cellValue(t, f, "Processed_Data", "B2"))
	assert.Equal(t, "40", cellValue(t, f, "Processed_Data", "C2"))
	assert.Equal(t, "2025", cellValue(t, f, "Processed_Data", "D2"))
	assert.Equal(t, "10", cellValue(t, f, "Processed_Data", "E2"))
	assert.Equal(t, "0.25", cellValue(t, f, "Processed_Data", "F2"))
	assert.Equal(t, "1", cellValue(t, f, "Processed_Data", "G2"))
	assert.Equal(t, "3", cellValue(t, f, "Processed_Data", "G4"))

	// The lowest carbon price keeps its absolute series; cp50 reports the
	// increment on top of cp25.
	assert.InDelta(t, 5, cellFloat(t, f, "Processed_Data", "E5"), 1e-9)
	assert.InDelta(t, 10, cellFloat(t, f, "Processed_Data", "E6"), 1e-9)
	assert.InDelta(t, 10, cellFloat(t, f, "Processed_Data", "E7"), 1e-9)

	// Marginal series sum back to the absolute totals of the highest price.
	absolute := []float64{15, 30, 50}
	for i := range years {
		low := cellFloat(t, f, "Processed_Data", "E"+strconv.Itoa(2+i))
		high := cellFloat(t, f, "Processed_Data", "E"+strconv.Itoa(5+i))
		assert.InDelta(t, absolute[i], low+high, 1e-9)
	}

	// The lone hr10 run keeps its absolute series whole.
	assert.Equal(t, "25", cellValue(t, f, "Processed_Data", "A8"))
	assert.Equal(t, "10", cellValue(t, f, "Processed_Data", "B8"))
	assert.Equal(t, "8", cellValue(t, f, "Processed_Data", "C8"))
	assert.Equal(t, "0.625", cellValue(t, f, "Processed_Data", "F8"))
	assert.Equal(t, "0.75", cellValue(t, f, "Processed_Data", "F10"))

	for row := 2; row <= 10; row++ {
		shape := cellFloat(t, f, "Processed_Data", "F"+strconv.Itoa(row))
		assert.GreaterOrEqual(t, shape, 0.0, "row %d", row)
		assert.LessOrEqual(t, shape, 1.0, "row %d", row)
	}

	assert.Equal(t, "Hurdle Rate", cellValue(t, f, "VEDA_SHAPE", "A1"))
	assert.Equal(t, "Year", cellValue(t, f, "VEDA_SHAPE", "E1"))
	assert.Equal(t, "5", cellValue(t, f, "VEDA_SHAPE", "A2"))
	assert.Equal(t, "25", cellValue(t, f, "VEDA_SHAPE", "C2"))
	assert.Equal(t, "0.25", cellValue(t, f, "VEDA_SHAPE", "D2"))
	assert.Equal(t, "1", cellValue(t, f, "VEDA_SHAPE", "E2"))

	// One max-sequestration row per run.
	assert.Equal(t, "40", cellValue(t, f, "VEDA_Max_Sequestration", "C2"))
	assert.Equal(t, "10", cellValue(t, f, "VEDA_Max_Sequestration", "C3"))
	assert.Equal(t, "8", cellValue(t, f, "VEDA_Max_Sequestration", "C4"))
	assert.Empty(t, cellValue(t, f, "VEDA_Max_Sequestration", "A5"))
}

func TestRunFlatSeriesShapesToZero(t *testing.T) {
	dir := t.TempDir()
	writeRunWorkbook(t, dir, "LUTO_cp25_hr5_capConOn.xlsx", []int{2025, 2030}, []float64{0, 0})

	stats, err := luto.Run(luto.Options{
		InputDir: dir,
		Output:   filepath.Join(dir, "out.xlsx"),
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)

	f, err := excelize.OpenFile(filepath.Join(dir, "out.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	// A run that never sequesters has no peak to normalize against.
	assert.Equal(t, "0", cellValue(t, f, "Processed_Data", "C2"))
	assert.Equal(t, "0", cellValue(t, f, "Processed_Data", "F2"))
	assert.Equal(t, "0", cellValue(t, f, "Processed_Data", "F3"))
}

func TestRunSkipsWorkbookWithoutTotalsRow(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Land use"))
	require.NoError(t, f.SetCellValue(sheet, "B1", 2025))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Environmental plantings"))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "LUTO_cp25_hr5_capConOn.xlsx")))
	require.NoError(t, f.Close())

	stats, err := luto.Run(luto.Options{InputDir: dir}, zap.NewNop())
	assert.ErrorIs(t, err, luto.ErrNoData)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Zero(t, stats.FilesUsed)
}

func TestRunEmptyDirectory(t *testing.T) {
	_, err := luto.Run(luto.Options{InputDir: t.TempDir()}, zap.NewNop())
	assert.ErrorIs(t, err, luto.ErrNoData)
}

func TestRunMissingDirectory(t *testing.T) {
	_, err := luto.Run(luto.Options{
		InputDir: filepath.Join(t.TempDir(), "absent"),
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "luto input")
}
