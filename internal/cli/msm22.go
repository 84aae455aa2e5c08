package cli

import (
	"github.com/spf13/cobra"

	"austimes-tools/internal/msm22"
)

func (c *commandSet) newMSM22Command() *cobra.Command {
	var opts msm22.Options

	cmd := &cobra.Command{
		Use:   "msm22-csvs <input.xlsx>",
		Short: "Split an MSM22 results workbook into per-sheet CSVs",
		Long: `Export every data sheet of an MSM22 results workbook as a tidied CSV:
the title band is dropped, override columns are back-filled and each
sheet name is mapped to its published file stem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run("msm22-csvs", func() error {
				opts.Input = args[0]
				_, err := msm22.Run(opts, c.log)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "directory for the CSVs (default the input's directory)")
	return cmd
}
