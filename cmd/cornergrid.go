package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plotextract/grid"
)

var cornergridCmd = &cobra.Command{
	Use:   "cornergrid xls_in xls_out",
	Short: "Build sampling grids from plot corners",
	Long: `Read four (x, y) corners per plot from columns B to I of the given
	rows, lay a grid of --res spacing over each plot and write the grid
	points inside the plot to one sheet per plot. The output can be passed
	as xls_in to extractplots.

	Exactly four corners per plot are expected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := grid.Options{
			Sheet:      viper.GetString("grid.sheet"),
			Resolution: viper.GetFloat64("grid.res"),
			FirstRow:   viper.GetInt("grid.first-row"),
			LastRow:    viper.GetInt("grid.last-row"),
		}
		_, err := grid.CornersToGrid(args[0], args[1], opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cornergridCmd)

	defaults := grid.DefaultOptions()
	cornergridCmd.Flags().String("sheet", defaults.Sheet, "Sheet holding the plot corners")
	bindFlag("grid.sheet", cornergridCmd, "sheet")

	cornergridCmd.Flags().Float64P("res", "r", defaults.Resolution, "Grid resolution in map units")
	bindFlag("grid.res", cornergridCmd, "res")

	cornergridCmd.Flags().Int("first-row", defaults.FirstRow, "First spreadsheet row to read (1-based)")
	bindFlag("grid.first-row", cornergridCmd, "first-row")

	cornergridCmd.Flags().Int("last-row", defaults.LastRow, "Last spreadsheet row to read (1-based)")
	bindFlag("grid.last-row", cornergridCmd, "last-row")
}
