package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plotextract/extract"
	"plotextract/raster"
	"plotextract/stats"
)

// extractplotsCmd represents the extractplots command
var extractplotsCmd = &cobra.Command{
	Use:   "extractplots xls_in xls_out raster...",
	Short: "Aggregate raster values over field plots",
	Long: `Read the coordinates of plot i from the sheet named "i" of xls_in
	(header row, then x in column A and y in column B), sample every raster
	at those coordinates and write the "median" and "std" sheets to xls_out,
	plots as rows and rasters as columns.

	Options:
		--band:    1-based raster band to read.
		--plots:   Number of plot sheets in xls_in.
		--method:  median, mean or truncated.
		--alpha:   Fraction trimmed from each end by the truncated method.
		--names:   Column headers, one per raster. Defaults to file names.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandRasters(args[2:])
		if err != nil {
			return err
		}

		opts := extract.PlotOptions{
			Band:   viper.GetInt("plots.band"),
			Plots:  viper.GetInt("plots.count"),
			Method: viper.GetString("plots.method"),
			Alpha:  viper.GetFloat64("plots.alpha"),
		}
		if names := viper.GetStringSlice("plots.names"); len(names) > 0 {
			opts.Names = names
		}

		_, err = extract.Plots(raster.GDALReader{}, args[0], args[1], files, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractplotsCmd)

	defaults := extract.DefaultPlotOptions()
	extractplotsCmd.Flags().IntP("band", "b", defaults.Band, "Raster band to read")
	bindFlag("plots.band", extractplotsCmd, "band")

	extractplotsCmd.Flags().IntP("plots", "n", defaults.Plots, "Number of plot sheets in the input workbook")
	bindFlag("plots.count", extractplotsCmd, "plots")

	extractplotsCmd.Flags().StringP("method", "m", defaults.Method, "Aggregation method: median, mean or truncated")
	bindFlag("plots.method", extractplotsCmd, "method")

	extractplotsCmd.Flags().Float64("alpha", stats.DefaultAlpha, "Fraction trimmed from each end by the truncated method")
	bindFlag("plots.alpha", extractplotsCmd, "alpha")

	extractplotsCmd.Flags().StringSlice("names", nil, "Column headers, one per raster")
	bindFlag("plots.names", extractplotsCmd, "names")
}
