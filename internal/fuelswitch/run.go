package fuelswitch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"austimes-tools/internal/etable"
	"austimes-tools/internal/observability/metrics"
)

// RunOptions configures one fuel-switching run.
type RunOptions struct {
	// Input is the wide-by-year energy-balance file (.csv or workbook).
	Input string
	// Sheet names the workbook sheet to read; empty means the first sheet.
	Sheet string
	// Output is the merged long-format CSV destination.
	Output string
	// RulesPath optionally overlays the compiled-in rule tables with a
	// YAML rules file.
	RulesPath string
	// UseCache enables the read-through parsed-table cache.
	UseCache bool
	// ReportPDF and ReportXLSX optionally write the diagnostic run report.
	ReportPDF  string
	ReportXLSX string
}

// RunSummary is the diagnostic record of one completed run.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Input  string
	Output string

	// SectorRows counts classified rows per sector, OutputRows the merged
	// long-format rows written.
	SectorRows map[string]int
	OutputRows int
	// EntryTallies counts written rows per entry type.
	EntryTallies map[EntryType]int

	Industry IndustryStats
	Warnings []string
}

// Run executes the full fuel-switching pipeline: ingest, per-sector
// classification, heavy-industry reconciliation, assembly and the CSV
// write, plus the optional diagnostic report. Report failures are logged
// and never fail the run.
func Run(opts RunOptions, log *zap.Logger) (*RunSummary, error) {
	start := time.Now()
	if opts.Output == "" {
		opts.Output = strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input)) + "_fuel_switching.csv"
	}
	summary := &RunSummary{
		RunID:        uuid.NewString(),
		StartedAt:    start,
		Input:        opts.Input,
		Output:       opts.Output,
		SectorRows:   make(map[string]int),
		EntryTallies: make(map[EntryType]int),
	}
	log = log.With(zap.String("run_id", summary.RunID))

	cfg, err := LoadConfig(opts.RulesPath)
	if err != nil {
		return nil, err
	}

	tab, err := etable.ReadFileCached(opts.Input, opts.Sheet, opts.UseCache, log)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Input, err)
	}
	et, err := NewEnergyTable(tab, cfg.Columns, log)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Input, err)
	}
	metrics.AddRowsIngested(inputFormat(opts.Input), et.Len())
	log.Info("energy table loaded",
		zap.String("input", opts.Input),
		zap.Int("rows", et.Len()),
		zap.Int("year_columns", len(et.Years())))

	classifier := NewClassifier(cfg.Classifier)
	var classified []ClassifiedRow
	for _, profile := range cfg.Sectors {
		rows, err := BuildSectorTable(et, profile, classifier)
		if err != nil {
			metrics.IncClassificationFailure()
			return nil, err
		}
		summary.SectorRows[profile.Name] = len(rows)
		metrics.AddRowsClassified(profile.Name, len(rows))
		if len(rows) == 0 {
			summary.warn(log, "empty_sector", fmt.Sprintf("sector %s matched no rows", profile.Name))
		}
		classified = append(classified, rows...)
	}

	rec := NewReconciler(log)
	flows, stats, err := BuildIndustryFlows(et, cfg, rec, log)
	if err != nil {
		return nil, err
	}
	summary.Industry = stats
	metrics.AddReconcileRuns(metrics.ReconcileOutcomeComputed, stats.TuplesReconciled-stats.DegenerateBaselines)
	metrics.AddReconcileRuns(metrics.ReconcileOutcomeDegenerate, stats.DegenerateBaselines)
	if stats.DegenerateBaselines > 0 {
		summary.warn(log, "degenerate_baseline",
			fmt.Sprintf("%d tuples had a degenerate baseline and were recorded as remaining consumption", stats.DegenerateBaselines))
	}

	output := AssembleOutput(classified, flows)
	summary.OutputRows = len(output)
	for _, row := range output {
		summary.EntryTallies[row.Entry]++
	}
	if err := WriteOutputCSV(opts.Output, output); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Output, err)
	}

	summary.Duration = time.Since(start)
	log.Info("fuel-switching run complete",
		zap.String("output", opts.Output),
		zap.Int("rows", summary.OutputRows),
		zap.Int("tuples_reconciled", stats.TuplesReconciled),
		zap.Duration("duration", summary.Duration))

	if opts.ReportPDF != "" {
		if err := BuildRunReportPDF(opts.ReportPDF, summary); err != nil {
			summary.warn(log, "report", fmt.Sprintf("pdf report failed: %v", err))
		}
	}
	if opts.ReportXLSX != "" {
		if err := BuildRunReportXLSX(opts.ReportXLSX, summary); err != nil {
			summary.warn(log, "report", fmt.Sprintf("xlsx report failed: %v", err))
		}
	}
	return summary, nil
}

func (s *RunSummary) warn(log *zap.Logger, kind, msg string) {
	s.Warnings = append(s.Warnings, msg)
	metrics.IncWarning(kind)
	log.Warn(msg)
}

// sectorNames lists the summarized sectors in stable order.
func (s *RunSummary) sectorNames() []string {
	names := make([]string, 0, len(s.SectorRows))
	for name := range s.SectorRows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// entryNames lists the tallied entry types in stable order.
func (s *RunSummary) entryNames() []EntryType {
	names := make([]EntryType, 0, len(s.EntryTallies))
	for name := range s.EntryTallies {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func inputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return "workbook"
	default:
		return "csv"
	}
}
