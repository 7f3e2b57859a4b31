package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var Verbose bool
var Debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plotextract",
	Short: "Sample rasters at spreadsheet coordinates and tabulate the results",
	Long: `Extract raster values over field plots and stations listed in
	spreadsheets, and build plot sampling grids from plot corners:
	./plotextract extractplots [opts] [xls_in] [xls_out] [raster...]
	./plotextract extractstations [opts] [xls_in] [xls_out] [raster...]
	./plotextract cornergrid [opts] [xls_in] [xls_out]

	Output format follows the output extension: .xlsx, .csv or .parquet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		setLogLevels()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig() error {
	viper.SetEnvPrefix("plotextract")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	logrus.Debugf("Using config file %s", viper.ConfigFileUsed())
	return nil
}

func setLogLevels() {
	// Progress counters are logged at info, so that is the floor.
	if viper.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// expandRasters resolves glob patterns among the raster arguments. Plain
// paths are kept as given, even if they do not exist yet.
func expandRasters(args []string) ([]string, error) {
	files := []string{}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			logrus.Warnf("Pattern %s matched no files", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

func bindFlag(key string, cmd *cobra.Command, name string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		logrus.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Log each raster file as it is read")
	err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	if err != nil {
		logrus.Exit(1)
	}
	rootCmd.PersistentFlags().BoolVarP(&Debug, "debug", "d", false, "Debug output")
	err = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logrus.Exit(1)
	}
}
