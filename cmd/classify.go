package cmd

import (
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Evaluate the random forest classifier on the fruit-quality table",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("classify", cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := s.classify(cmd.Context()); err != nil {
			return err
		}
		return s.finish()
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
