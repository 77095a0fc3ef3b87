package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/salescope/internal/config"
	"github.com/KaramelBytes/salescope/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags (override config when set)
	cfgFile       string
	debug         bool
	flagSales     string
	flagQuality   string
	flagOutputDir string
	flagDelimiter string
	flagNoCharts  bool
	flagChartFmt  string
	flagNoNarr    bool
	flagNarrStyle string
	flagXLSX      string
	flagSeparator string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	// cfgErr keeps the load failure for commands that need a config.
	cfgErr error

	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "salescope",
	Short: "salescope: grouped sales reports and fruit-quality model evaluation",
	Long: `salescope loads a supermarket sales table and a fruit-quality table, prints a fixed
sequence of grouped sales totals with charts and commentary, evaluates a random forest
classifier on the quality measurements and fits a linear trend over monthly sales.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.salescope/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug output")
	f.StringVar(&flagSales, "sales", "", "sales table (CSV/TSV/XLSX)")
	f.StringVar(&flagQuality, "quality", "", "fruit-quality table (CSV/TSV/XLSX)")
	f.StringVarP(&flagOutputDir, "output", "o", "", "output directory for charts, workbook and manifest")
	f.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	f.BoolVar(&flagNoCharts, "no-charts", false, "do not render charts")
	f.StringVar(&flagChartFmt, "chart-format", "", "chart file format: png | svg | pdf")
	f.BoolVar(&flagNoNarr, "no-narrative", false, "do not print commentary")
	f.StringVar(&flagNarrStyle, "narrative-style", "", "commentary style: plain | auto | dark | light | notty")
	f.StringVar(&flagXLSX, "xlsx", "", "also export every result to this workbook")
	f.StringVar(&flagSeparator, "separator", "", "thousands separator for printed amounts")
	f.StringVar(&flagLogFormat, "log-format", "", "log encoding: console | json")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfgErr = err
		cfg = nil
		return
	}
	cfgErr = nil
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("sales") {
		cfg.SalesPath = flagSales
	}
	if f.Changed("quality") {
		cfg.QualityPath = flagQuality
	}
	if f.Changed("output") {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("no-charts") {
		cfg.Charts = !flagNoCharts
	}
	if f.Changed("chart-format") {
		cfg.ChartFormat = flagChartFmt
	}
	if f.Changed("no-narrative") {
		cfg.Narrative = !flagNoNarr
	}
	if f.Changed("narrative-style") {
		cfg.NarrativeStyle = flagNarrStyle
	}
	if f.Changed("xlsx") {
		cfg.ExportXLSX = flagXLSX
	}
	if f.Changed("separator") {
		cfg.ThousandsSeparator = flagSeparator
	}
	if f.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		cfgErr = err
		cfg = nil
		return
	}

	l, err := logging.New(debug, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: init logger: %v\n", err)
		return
	}
	log = l
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, cfgErr
		}
		return nil, fmt.Errorf("no configuration loaded")
	}
	return cfg, nil
}
