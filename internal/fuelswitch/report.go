package fuelswitch

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildRunReportPDF renders the one-page diagnostic report for a run.
func BuildRunReportPDF(path string, s *RunSummary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Fuel-Switching Run Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", s.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Input: %s", s.Input))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Output: %s (%d rows)", s.Output, s.OutputRows))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Started: %s", s.StartedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Duration: %s", s.Duration.Round(time.Millisecond)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Sector", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Classified rows", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, name := range s.sectorNames() {
		pdf.CellFormat(70, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", s.SectorRows[name]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Entry type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Output rows", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, entry := range s.entryNames() {
		pdf.CellFormat(70, 6, string(entry), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", s.EntryTallies[entry]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.Cell(0, 6, fmt.Sprintf("Groups processed: %d", s.Industry.GroupsProcessed))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Tuples reconciled: %d", s.Industry.TuplesReconciled))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Degenerate baselines: %d", s.Industry.DegenerateBaselines))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Max conservation residual: %g", s.Industry.MaxConservationResidual))
	pdf.Ln(8)

	if len(s.Warnings) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Warnings")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, warning := range s.Warnings {
			pdf.Cell(0, 5, "- "+warning)
			pdf.Ln(5)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// BuildRunReportXLSX renders the same diagnostic report as a workbook.
func BuildRunReportXLSX(path string, s *RunSummary) error {
	f := excelize.NewFile()
	summarySheet := "summary"
	talliesSheet := "tallies"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(talliesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Fuel-Switching Run Report")
	_ = f.SetCellValue(summarySheet, "A3", "Run ID")
	_ = f.SetCellValue(summarySheet, "B3", s.RunID)
	_ = f.SetCellValue(summarySheet, "A4", "Input")
	_ = f.SetCellValue(summarySheet, "B4", s.Input)
	_ = f.SetCellValue(summarySheet, "A5", "Output")
	_ = f.SetCellValue(summarySheet, "B5", s.Output)
	_ = f.SetCellValue(summarySheet, "A6", "Output rows")
	_ = f.SetCellValue(summarySheet, "B6", s.OutputRows)
	_ = f.SetCellValue(summarySheet, "A7", "Started")
	_ = f.SetCellValue(summarySheet, "B7", s.StartedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A8", "Duration")
	_ = f.SetCellValue(summarySheet, "B8", s.Duration.Round(time.Millisecond).String())
	_ = f.SetCellValue(summarySheet, "A9", "Groups processed")
	_ = f.SetCellValue(summarySheet, "B9", s.Industry.GroupsProcessed)
	_ = f.SetCellValue(summarySheet, "A10", "Tuples reconciled")
	_ = f.SetCellValue(summarySheet, "B10", s.Industry.TuplesReconciled)
	_ = f.SetCellValue(summarySheet, "A11", "Degenerate baselines")
	_ = f.SetCellValue(summarySheet, "B11", s.Industry.DegenerateBaselines)
	_ = f.SetCellValue(summarySheet, "A12", "Max conservation residual")
	_ = f.SetCellValue(summarySheet, "B12", s.Industry.MaxConservationResidual)

	row := 14
	if len(s.Warnings) > 0 {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Warnings")
		for i, warning := range s.Warnings {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row+1+i), warning)
		}
	}

	_ = f.SetCellValue(talliesSheet, "A1", "Sector")
	_ = f.SetCellValue(talliesSheet, "B1", "Classified rows")
	row = 2
	for _, name := range s.sectorNames() {
		_ = f.SetCellValue(talliesSheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(talliesSheet, fmt.Sprintf("B%d", row), s.SectorRows[name])
		row++
	}
	row++
	_ = f.SetCellValue(talliesSheet, fmt.Sprintf("A%d", row), "Entry type")
	_ = f.SetCellValue(talliesSheet, fmt.Sprintf("B%d", row), "Output rows")
	row++
	for _, entry := range s.entryNames() {
		_ = f.SetCellValue(talliesSheet, fmt.Sprintf("A%d", row), string(entry))
		_ = f.SetCellValue(talliesSheet, fmt.Sprintf("B%d", row), s.EntryTallies[entry])
		row++
	}

	return f.SaveAs(path)
}
