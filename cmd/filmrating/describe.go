package main

import "github.com/spf13/cobra"

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print descriptive statistics of the film table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, stages{describe: true})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
