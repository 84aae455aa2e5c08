// Package cli assembles the austimes command tree.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"austimes-tools/internal/config"
	"austimes-tools/internal/observability/metrics"
)

// NewLogger builds the process logger from the loaded settings.
func NewLogger(settings *config.Settings) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", settings.LogLevel, err)
	}
	var cfg zap.Config
	switch settings.LogFormat {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// commandSet carries the dependencies every subcommand shares.
type commandSet struct {
	settings   *config.Settings
	log        *zap.Logger
	metricsOut string
}

// NewRootCommand returns the austimes command tree.
func NewRootCommand(settings *config.Settings, log *zap.Logger) *cobra.Command {
	set := &commandSet{settings: settings, log: log}

	cmd := &cobra.Command{
		Use:   "austimes",
		Short: "Reshape AusTIMES energy model outputs",
		Long: `Batch utilities around the AusTIMES energy system model.

Commands:
  fuel-switching  Attribute fuel-switching flows in an energy-balance export.
  luto            Build VEDA supply curves from LUTO sequestration workbooks.
  msm22-csvs      Split an MSM22 results workbook into per-sheet CSVs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&set.metricsOut, "metrics-out", settings.MetricsOut,
		"write run metrics in Prometheus text format to this path")

	cmd.AddCommand(set.newFuelSwitchingCommand())
	cmd.AddCommand(set.newLutoCommand())
	cmd.AddCommand(set.newMSM22Command())

	return cmd
}

// run executes fn, records its wall time under the command name and
// flushes the metrics textfile when one was requested, on failed runs
// included. A textfile write failure is logged, never returned.
func (c *commandSet) run(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveCommand(name, time.Since(start))
	if c.metricsOut != "" {
		if werr := metrics.WriteTextfile(c.metricsOut); werr != nil {
			c.log.Warn("metrics textfile not written",
				zap.String("path", c.metricsOut), zap.Error(werr))
		}
	}
	return err
}
