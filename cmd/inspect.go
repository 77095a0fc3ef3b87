package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	inspOutputPath string
	inspDelimiter  string
	inspSampleRows int
	inspSheetName  string
	inspDecimal    string
	inspThousands  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a CSV/TSV/XLSX table: column kinds, missing values and basic statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := dataset.Options{Sheet: inspSheetName}
		switch inspDelimiter {
		case "":
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", inspDelimiter)
		}
		// Locale separators
		switch strings.ToLower(strings.TrimSpace(inspDecimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", inspDecimal)
		}
		switch strings.ToLower(strings.TrimSpace(inspThousands)) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
		default:
			return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", inspThousands)
		}

		raw, err := dataset.Open(args[0], opt)
		if err != nil {
			return err
		}
		md := dataset.ProfileRaw(raw, inspSampleRows, opt).Markdown()

		if inspOutputPath != "" {
			if err := os.WriteFile(inspOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspOutputPath, "out", "", "write the profile markdown to this file")
	inspectCmd.Flags().StringVar(&inspDelimiter, "delim", "", "CSV delimiter override: ',' | ';' | 'tab'")
	inspectCmd.Flags().IntVar(&inspSampleRows, "sample-rows", 5, "number of sample rows to include")
	inspectCmd.Flags().StringVar(&inspSheetName, "sheet", "", "XLSX sheet name (default first sheet)")
	inspectCmd.Flags().StringVar(&inspDecimal, "decimal", "", "decimal separator: '.' | 'comma' (default auto)")
	inspectCmd.Flags().StringVar(&inspThousands, "thousands", "", "thousands separator: ',' | '.' | 'space'")
}
