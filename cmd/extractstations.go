package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plotextract/extract"
	"plotextract/raster"
)

var extractstationsCmd = &cobra.Command{
	Use:   "extractstations xls_in xls_out raster...",
	Short: "Read raster values at fixed station coordinates",
	Long: `Read station x coordinates from the first row and y coordinates from
	the second row of --range on --sheet of xls_in, then write one row per
	raster with the value at every station. Raster arguments may be glob
	patterns, e.g. '/data/merged_sm/*.tif'.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandRasters(args[2:])
		if err != nil {
			return err
		}

		opts := extract.StationOptions{
			Band:     viper.GetInt("stations.band"),
			Stations: viper.GetInt("stations.count"),
			Sort:     viper.GetBool("stations.sort"),
			Verbose:  viper.GetBool("verbose"),
			Sheet:    viper.GetString("stations.sheet"),
			Range:    viper.GetString("stations.range"),
		}

		_, err = extract.Stations(raster.GDALReader{}, args[0], args[1], files, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractstationsCmd)

	defaults := extract.DefaultStationOptions()
	extractstationsCmd.Flags().IntP("band", "b", defaults.Band, "Raster band to read")
	bindFlag("stations.band", extractstationsCmd, "band")

	extractstationsCmd.Flags().IntP("stations", "n", defaults.Stations, "Number of stations")
	bindFlag("stations.count", extractstationsCmd, "stations")

	extractstationsCmd.Flags().Bool("sort", defaults.Sort, "Process rasters in lexicographic order")
	bindFlag("stations.sort", extractstationsCmd, "sort")

	extractstationsCmd.Flags().String("sheet", defaults.Sheet, "Sheet holding the station coordinates")
	bindFlag("stations.sheet", extractstationsCmd, "sheet")

	extractstationsCmd.Flags().String("range", defaults.Range, "Cell range of the x row and y row")
	bindFlag("stations.range", extractstationsCmd, "range")
}
