package cmd

import (
	"fmt"

	"github.com/KaramelBytes/salescope/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportPasses []string
	reportList   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the grouped sales passes and the monthly trend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportList {
			for _, p := range report.Passes {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s: %s\n", p.ID, p.Heading)
			}
			return nil
		}
		s, err := newSession("report", cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := s.salesReport(cmd.Context(), reportPasses); err != nil {
			return err
		}
		return s.finish()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceVar(&reportPasses, "pass", nil, "only run these passes (comma-separated ids)")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "list pass ids and exit")
}
