package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "filmrating",
	Short: "Explore IMDb film ratings and classify highly rated films",
	Long: `Loads an IMDb ratings CSV, derives a high_rating label (averageRating >= 7),
prints descriptive statistics, renders charts and trains a logistic regression
and a random forest to predict the label.

Running without a subcommand is the same as "filmrating analyze".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runAnalyze,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default ./filmrating.yaml)")
	f.String("data", "", "path to the ratings CSV (default: imdb_clean_2000.csv next to the binary)")
	f.String("format", "", "report format: text or yaml")
	f.String("plots-dir", "", "directory for chart PNGs")
	f.Bool("no-plots", false, "skip chart rendering")
	f.String("log-level", "", "log level (debug, info, warn, error)")
}

// setup loads the configuration, applies flag overrides and installs the
// logger tagged with a fresh run id.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := config.InitLogger(c.Log); err != nil {
		return err
	}
	zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))
	cfg = c
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	var err error
	if f.Changed("data") {
		c.Data.Path, err = f.GetString("data")
	}
	if err == nil && f.Changed("format") {
		c.Output.Format, err = f.GetString("format")
	}
	if err == nil && f.Changed("plots-dir") {
		c.Plots.Dir, err = f.GetString("plots-dir")
	}
	if err == nil && f.Changed("no-plots") {
		var skip bool
		skip, err = f.GetBool("no-plots")
		c.Plots.Enabled = !skip
	}
	if err == nil && f.Changed("log-level") {
		c.Log.Level, err = f.GetString("log-level")
	}
	if err != nil {
		return eris.Wrap(err, "flags")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
