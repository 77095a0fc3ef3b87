package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/salescope/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set salescope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "sales_path: %s\n", cfg.SalesPath)
		fmt.Fprintf(out, "quality_path: %s\n", cfg.QualityPath)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "charts: %t\n", cfg.Charts)
		fmt.Fprintf(out, "chart_format: %s\n", cfg.ChartFormat)
		fmt.Fprintf(out, "narrative: %t\n", cfg.Narrative)
		fmt.Fprintf(out, "narrative_style: %s\n", cfg.NarrativeStyle)
		fmt.Fprintf(out, "narrative_width: %d\n", cfg.NarrativeWidth)
		if cfg.ExportXLSX != "" {
			fmt.Fprintf(out, "export_xlsx: %s\n", cfg.ExportXLSX)
		}
		fmt.Fprintf(out, "thousands_separator: %q\n", cfg.ThousandsSeparator)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "columns: region=%s segment=%s category=%s gender=%s amount=%s date=%s (%s)\n",
			cfg.Columns.Region, cfg.Columns.Segment, cfg.Columns.Category, cfg.Columns.Gender,
			cfg.Columns.Amount, cfg.Columns.Date, cfg.Columns.DateLayout)
		features := "(all)"
		if len(cfg.Quality.Features) > 0 {
			features = strings.Join(cfg.Quality.Features, ",")
		}
		fmt.Fprintf(out, "quality: label=%s features=%s exclude=%s\n",
			cfg.Quality.Label, features, strings.Join(cfg.Quality.Exclude, ","))
		fmt.Fprintf(out, "model: seed=%d test_size=%.2f trees=%d max_depth=%d regression_test_size=%.2f\n",
			cfg.Model.Seed, cfg.Model.TestSize, cfg.Model.Trees, cfg.Model.MaxDepth, cfg.Model.RegressionTestSize)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file and defaults, not from flag overrides.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "sales_path":
		c.SalesPath = val
	case "quality_path":
		c.QualityPath = val
	case "output_dir":
		c.OutputDir = val
	case "delimiter":
		c.Delimiter = val
	case "charts":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for charts: %v", val)
		}
		c.Charts = b
	case "chart_format":
		c.ChartFormat = strings.ToLower(val)
	case "narrative":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for narrative: %v", val)
		}
		c.Narrative = b
	case "narrative_style":
		c.NarrativeStyle = strings.ToLower(val)
	case "narrative_width":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for narrative_width: %w", err)
		}
		c.NarrativeWidth = i
	case "export_xlsx":
		c.ExportXLSX = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	case "log_format":
		c.LogFormat = val
	case "columns.region":
		c.Columns.Region = val
	case "columns.segment":
		c.Columns.Segment = val
	case "columns.category":
		c.Columns.Category = val
	case "columns.gender":
		c.Columns.Gender = val
	case "columns.amount":
		c.Columns.Amount = val
	case "columns.date":
		c.Columns.Date = val
	case "columns.date_layout":
		c.Columns.DateLayout = val
	case "quality.label":
		c.Quality.Label = val
	case "quality.features":
		c.Quality.Features = splitList(val)
	case "quality.exclude":
		c.Quality.Exclude = splitList(val)
	case "model.seed":
		u, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %w", err)
		}
		c.Model.Seed = u
	case "model.test_size", "model.regression_test_size":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		if key == "model.test_size" {
			c.Model.TestSize = f
		} else {
			c.Model.RegressionTestSize = f
		}
	case "model.trees":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for model.trees: %w", err)
		}
		c.Model.Trees = i
	case "model.max_depth":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for model.max_depth: %w", err)
		}
		c.Model.MaxDepth = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
