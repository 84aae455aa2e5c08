package metrics

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	metricPrefix = "austimes_"

	outcomeComputed   = "computed"
	outcomeDegenerate = "degenerate"
)

var (
	registerOnce sync.Once

	rowsIngested   *prometheus.CounterVec
	rowsClassified *prometheus.CounterVec

	classificationFailures prometheus.Counter

	reconcileRuns *prometheus.CounterVec
	warnings      *prometheus.CounterVec

	commandDuration *prometheus.HistogramVec
)

// Init registers the austimes metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		rowsIngested = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_ingested_total",
				Help: "Total input rows ingested by source format",
			},
			[]string{"format"},
		)
		rowsClassified = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_classified_total",
				Help: "Total classified rows by sector",
			},
			[]string{"sector"},
		)

		classificationFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "classification_failures_total",
				Help: "Total runs aborted by a classification lookup failure",
			},
		)

		reconcileRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconcile_runs_total",
				Help: "Total reconciled tuples by outcome",
			},
			[]string{"outcome"},
		)
		warnings = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "warnings_total",
				Help: "Total run warnings by kind",
			},
			[]string{"kind"},
		)

		commandDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		)

		prometheus.MustRegister(
			rowsIngested,
			rowsClassified,
			classificationFailures,
			reconcileRuns,
			warnings,
			commandDuration,
		)
	})
}

// AddRowsIngested adds ingested rows for one source format.
func AddRowsIngested(format string, rows int) {
	if rows <= 0 {
		return
	}
	if format == "" {
		format = "unknown"
	}
	if rowsIngested != nil {
		rowsIngested.WithLabelValues(format).Add(float64(rows))
	}
}

// AddRowsClassified adds classified rows for one sector.
func AddRowsClassified(sector string, rows int) {
	if rows <= 0 {
		return
	}
	if sector == "" {
		sector = "unknown"
	}
	if rowsClassified != nil {
		rowsClassified.WithLabelValues(sector).Add(float64(rows))
	}
}

// IncClassificationFailure increments the aborted-run counter.
func IncClassificationFailure() {
	if classificationFailures != nil {
		classificationFailures.Inc()
	}
}

// AddReconcileRuns adds reconciled tuples for one outcome.
func AddReconcileRuns(outcome string, count int) {
	if count <= 0 {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	if reconcileRuns != nil {
		reconcileRuns.WithLabelValues(outcome).Add(float64(count))
	}
}

// IncWarning increments the warning counter for one kind.
func IncWarning(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if warnings != nil {
		warnings.WithLabelValues(kind).Inc()
	}
}

// ObserveCommand records one command execution duration.
func ObserveCommand(command string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if commandDuration != nil {
		commandDuration.WithLabelValues(command).Observe(duration.Seconds())
	}
}

// WriteTextfile dumps the austimes metric families to path in the
// Prometheus text exposition format, for textfile-collector pickup.
func WriteTextfile(path string) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), metricPrefix) {
			continue
		}
		if err := encoder.Encode(family); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Exported constants for callers.
const (
	ReconcileOutcomeComputed   = outcomeComputed
	ReconcileOutcomeDegenerate = outcomeDegenerate
)
