package cli

import (
	"github.com/spf13/cobra"

	"austimes-tools/internal/fuelswitch"
)

func (c *commandSet) newFuelSwitchingCommand() *cobra.Command {
	var opts fuelswitch.RunOptions
	var noCache bool

	cmd := &cobra.Command{
		Use:   "fuel-switching <input>",
		Short: "Attribute fuel-switching flows in an energy-balance export",
		Long: `Read a wide-by-year energy-balance export (.csv or workbook), classify
its rows into sector tables, reconcile the heavy-industry fuel mixes
against production and write one long-format CSV of remaining
consumption, fuel-switch and electrification entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run("fuel-switching", func() error {
				opts.Input = args[0]
				opts.UseCache = c.settings.Cache && !noCache
				_, err := fuelswitch.Run(opts, c.log)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output CSV path (default <input stem>_fuel_switching.csv)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet to read (default the first sheet)")
	cmd.Flags().StringVar(&opts.RulesPath, "rules", c.settings.Rules, "YAML rules file overlaying the built-in tables")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the parsed-input cache")
	cmd.Flags().StringVar(&opts.ReportPDF, "report", "", "write a PDF run report to this path")
	cmd.Flags().StringVar(&opts.ReportXLSX, "report-xlsx", "", "write a workbook run report to this path")
	return cmd
}
