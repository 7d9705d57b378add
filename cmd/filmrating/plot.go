package main

import "github.com/spf13/cobra"

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the exploratory charts as PNG files",
	Long: `Renders the eight exploratory charts into plots.dir (default "plots"):
rating, runtime and vote histograms, the class balance, a runtime boxplot,
mean rating of the top genres and rating against log votes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, stages{plot: true})
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
}
