// Package luto turns a directory of LUTO carbon-sequestration workbooks
// into the marginal-abatement supply curves consumed by VEDA.
package luto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"austimes-tools/internal/etable"
)

// ErrNoData means no workbook in the input directory was usable.
var ErrNoData = errors.New("luto: no usable workbooks in input directory")

// totalRowLabel identifies the sequestration row inside each workbook.
const totalRowLabel = "Total carbon sequestration (tCO2e)"

// tonnesPerMegatonne converts the raw tCO2e values to MtCO2e.
const tonnesPerMegatonne = 1e6

var (
	carbonPriceRe = regexp.MustCompile(`cp(\d+)`)
	hurdleRateRe  = regexp.MustCompile(`hr(\d+)`)
)

// Options configures one LUTO processing run.
type Options struct {
	// InputDir holds the per-run workbooks, coordinates in the filename.
	InputDir string
	// Output is the processed workbook destination.
	Output string
}

// Stats summarizes one run.
type Stats struct {
	FilesUsed    int
	FilesSkipped int
	Runs         int
	Rows         int
}

// Record is one melted observation of the processed table: the marginal
// sequestration of a (carbon price, hurdle rate) run in one year.
type Record struct {
	CarbonPrice      int
	HurdleRate       int
	MaxSequestration float64
	Year             int
	Value            float64
	Shape            float64
	ShapeYear        int
}

type runKey struct {
	carbonPrice int
	hurdleRate  int
}

// Run reads every usable workbook under opts.InputDir, derives the
// marginal sequestration series and writes the three-sheet processed
// workbook to opts.Output.
func Run(opts Options, log *zap.Logger) (Stats, error) {
	var stats Stats
	if opts.Output == "" {
		opts.Output = filepath.Join(opts.InputDir, "luto_processed.xlsx")
	}
	absolute := make(map[runKey]map[int]float64)

	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return stats, fmt.Errorf("luto input: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~") {
			continue
		}
		key, constrained, ok := parseRunName(name)
		if !ok {
			stats.FilesSkipped++
			log.Warn("filename carries no run coordinates, skipped", zap.String("file", name))
			continue
		}
		if !constrained {
			stats.FilesSkipped++
			log.Debug("capacity-unconstrained run skipped", zap.String("file", name))
			continue
		}
		series, err := readSequestration(filepath.Join(opts.InputDir, name))
		if err != nil {
			stats.FilesSkipped++
			log.Warn("workbook unusable, skipped", zap.String("file", name), zap.Error(err))
			continue
		}
		stats.FilesUsed++
		log.Info("processing workbook",
			zap.String("file", name),
			zap.Int("carbon_price", key.carbonPrice),
			zap.Int("hurdle_rate", key.hurdleRate))
		absolute[key] = series
	}
	if len(absolute) == 0 {
		return stats, ErrNoData
	}

	records := buildRecords(absolute)
	stats.Runs = len(absolute)
	stats.Rows = len(records)
	if err := writeProcessed(opts.Output, records); err != nil {
		return stats, fmt.Errorf("write %s: %w", opts.Output, err)
	}
	log.Info("luto data processed",
		zap.String("output", opts.Output),
		zap.Int("runs", stats.Runs),
		zap.Int("rows", stats.Rows))
	return stats, nil
}

// parseRunName extracts the run coordinates and the capacity-constraint
// flag from a workbook filename.
func parseRunName(name string) (runKey, bool, bool) {
	cp := carbonPriceRe.FindStringSubmatch(name)
	hr := hurdleRateRe.FindStringSubmatch(name)
	if cp == nil || hr == nil {
		return runKey{}, false, false
	}
	carbonPrice, err := strconv.Atoi(cp[1])
	if err != nil {
		return runKey{}, false, false
	}
	hurdleRate, err := strconv.Atoi(hr[1])
	if err != nil {
		return runKey{}, false, false
	}
	return runKey{carbonPrice: carbonPrice, hurdleRate: hurdleRate},
		strings.Contains(name, "capConOn"), true
}

// readSequestration pulls the total-sequestration row from the workbook's
// first sheet as a year-to-MtCO2e series.
func readSequestration(path string) (map[int]float64, error) {
	tab, err := etable.ReadWorkbook(path, "")
	if err != nil {
		return nil, err
	}
	years := tab.YearColumns()
	if len(years) == 0 {
		return nil, fmt.Errorf("no year columns: %w", etable.ErrMissingColumn)
	}
	total := tab.Filter(func(row []etable.Cell) bool {
		return row[0].Valid && row[0].Value == totalRowLabel
	})
	if len(total.Rows) == 0 {
		return nil, fmt.Errorf("row %q not found", totalRowLabel)
	}
	series := make(map[int]float64, len(years))
	for _, year := range years {
		if v, ok := total.Cell(0, year.Index).Float(); ok {
			series[year.Year] = v / tonnesPerMegatonne
		}
	}
	return series, nil
}

// buildRecords turns the absolute series into marginal records with the
// per-run maximum, the SHAPE normalization and the re-indexed year.
func buildRecords(absolute map[runKey]map[int]float64) []Record {
	years := make(map[int]bool)
	rates := make(map[int][]int)
	for key, series := range absolute {
		for year := range series {
			years[year] = true
		}
		rates[key.hurdleRate] = append(rates[key.hurdleRate], key.carbonPrice)
	}
	sortedYears := sortedKeys(years)
	minYear := sortedYears[0]
	sortedRates := make([]int, 0, len(rates))
	for rate, prices := range rates {
		sortedRates = append(sortedRates, rate)
		sort.Ints(prices)
	}
	sort.Ints(sortedRates)

	// The lowest carbon price keeps its absolute series; every other price
	// reports the delta against the next price down.
	marginal := make(map[runKey]map[int]float64, len(absolute))
	for _, rate := range sortedRates {
		prices := rates[rate]
		for i, price := range prices {
			key := runKey{carbonPrice: price, hurdleRate: rate}
			series := make(map[int]float64, len(sortedYears))
			for _, year := range sortedYears {
				value := absolute[key][year]
				if i > 0 {
					prev := runKey{carbonPrice: prices[i-1], hurdleRate: rate}
					value -= absolute[prev][year]
				}
				series[year] = value
			}
			marginal[key] = series
		}
	}

	var records []Record
	for _, rate := range sortedRates {
		for _, price := range rates[rate] {
			key := runKey{carbonPrice: price, hurdleRate: rate}
			series := marginal[key]
			maxSeq := series[sortedYears[0]]
			for _, year := range sortedYears[1:] {
				if series[year] > maxSeq {
					maxSeq = series[year]
				}
			}
			for _, year := range sortedYears {
				shape := 0.0
				if maxSeq != 0 {
					shape = series[year] / maxSeq
				}
				records = append(records, Record{
					CarbonPrice:      price,
					HurdleRate:       rate,
					MaxSequestration: maxSeq,
					Year:             year,
					Value:            series[year],
					Shape:            shape,
					ShapeYear:        year - minYear + 1,
				})
			}
		}
	}
	return records
}

// writeProcessed writes the three output sheets.
func writeProcessed(path string, records []Record) error {
	f := excelize.NewFile()
	processedSheet := "Processed_Data"
	shapeSheet := "VEDA_SHAPE"
	maxSheet := "VEDA_Max_Sequestration"
	f.SetSheetName("Sheet1", processedSheet)
	f.NewSheet(shapeSheet)
	f.NewSheet(maxSheet)

	setRow(f, processedSheet, 1,
		"Carbon Price", "Hurdle Rate", "Max Sequestration", "Year",
		"Sequestration [MtCO2e]", "SHAPE", "SHAPE_Year")
	for i, r := range records {
		setRow(f, processedSheet, i+2,
			r.CarbonPrice, r.HurdleRate, r.MaxSequestration, r.Year,
			r.Value, r.Shape, r.ShapeYear)
	}

	setRow(f, shapeSheet, 1, "Hurdle Rate", " ", "other_indexes", "AllRegions", "Year")
	for i, r := range records {
		setRow(f, shapeSheet, i+2, r.HurdleRate, "", r.CarbonPrice, r.Shape, r.ShapeYear)
	}

	setRow(f, maxSheet, 1, "Carbon Price", "Hurdle Rate", "Max Sequestration")
	row := 2
	seen := make(map[runKey]bool)
	for _, r := range records {
		key := runKey{carbonPrice: r.CarbonPrice, hurdleRate: r.HurdleRate}
		if seen[key] {
			continue
		}
		seen[key] = true
		setRow(f, maxSheet, row, r.CarbonPrice, r.HurdleRate, r.MaxSequestration)
		row++
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
