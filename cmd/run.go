package cmd

import (
	"github.com/spf13/cobra"
)

var (
	runPasses       []string
	runSkipClassify bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full report: sales passes, trend regression and classifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("run", cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := s.salesReport(cmd.Context(), runPasses); err != nil {
			return err
		}
		if !runSkipClassify {
			if err := s.classify(cmd.Context()); err != nil {
				return err
			}
		}
		return s.finish()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&runPasses, "pass", nil, "only run these passes (comma-separated ids, see 'report --list')")
	runCmd.Flags().BoolVar(&runSkipClassify, "skip-classify", false, "skip the fruit-quality classifier")
}
