package cli

import (
	"github.com/spf13/cobra"

	"austimes-tools/internal/luto"
)

func (c *commandSet) newLutoCommand() *cobra.Command {
	var opts luto.Options

	cmd := &cobra.Command{
		Use:   "luto <input-dir>",
		Short: "Build VEDA supply curves from LUTO sequestration workbooks",
		Long: `Scan a directory of LUTO carbon-sequestration workbooks named by carbon
price and hurdle rate, derive the marginal sequestration of each
capacity-constrained run and write the processed three-sheet workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run("luto", func() error {
				opts.InputDir = args[0]
				_, err := luto.Run(opts, c.log)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "processed workbook path (default <input-dir>/luto_processed.xlsx)")
	return cmd
}
