package main

import "github.com/spf13/cobra"

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate the logistic regression and random forest pipelines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, stages{train: true})
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
