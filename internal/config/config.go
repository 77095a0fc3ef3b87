package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Columns maps the sales table roles to CSV header names.
type Columns struct {
	Region   string `mapstructure:"region" yaml:"region" validate:"required"`
	Segment  string `mapstructure:"segment" yaml:"segment" validate:"required"`
	Category string `mapstructure:"category" yaml:"category" validate:"required"`
	Gender   string `mapstructure:"gender" yaml:"gender" validate:"required"`
	Amount   string `mapstructure:"amount" yaml:"amount" validate:"required"`
	Date     string `mapstructure:"date" yaml:"date" validate:"required"`
	// DateLayout is a Go time layout; ISO dates are always accepted as a fallback.
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
}

// Quality describes the fruit-quality table.
type Quality struct {
	Label string `mapstructure:"label" yaml:"label" validate:"required"`
	// Features lists numeric measurement columns. Empty means every header
	// except Label and Exclude.
	Features []string `mapstructure:"features" yaml:"features"`
	Exclude  []string `mapstructure:"exclude" yaml:"exclude"`
}

// Model holds the fixed evaluation parameters.
type Model struct {
	Seed               uint64  `mapstructure:"seed" yaml:"seed"`
	TestSize           float64 `mapstructure:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	Trees              int     `mapstructure:"trees" yaml:"trees" validate:"gte=1"`
	MaxDepth           int     `mapstructure:"max_depth" yaml:"max_depth" validate:"gte=0"`
	RegressionTestSize float64 `mapstructure:"regression_test_size" yaml:"regression_test_size" validate:"gt=0,lt=1"`
}

// Global configuration structure.
type Global struct {
	SalesPath   string `mapstructure:"sales_path" yaml:"sales_path" validate:"required"`
	QualityPath string `mapstructure:"quality_path" yaml:"quality_path" validate:"required"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	// Delimiter for CSV inputs: "" (by extension), ",", ";" or "tab".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	Charts         bool   `mapstructure:"charts" yaml:"charts"`
	ChartFormat    string `mapstructure:"chart_format" yaml:"chart_format" validate:"oneof=png svg pdf"`
	Narrative      bool   `mapstructure:"narrative" yaml:"narrative"`
	NarrativeStyle string `mapstructure:"narrative_style" yaml:"narrative_style" validate:"oneof=plain auto dark light notty"`
	NarrativeWidth int    `mapstructure:"narrative_width" yaml:"narrative_width" validate:"gte=20"`
	ExportXLSX     string `mapstructure:"export_xlsx" yaml:"export_xlsx"`

	// ThousandsSeparator groups digits in printed amounts.
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator" validate:"len=1"`

	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`

	Columns Columns `mapstructure:"columns" yaml:"columns"`
	Quality Quality `mapstructure:"quality" yaml:"quality"`
	Model   Model   `mapstructure:"model" yaml:"model"`
}

// Separator returns the thousands separator as a rune.
func (c *Global) Separator() rune {
	for _, r := range c.ThousandsSeparator {
		return r
	}
	return '.'
}

// DelimiterRune returns the configured CSV delimiter, or 0 to choose by extension.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case ",":
		return ','
	case ";":
		return ';'
	case "tab", "\t":
		return '\t'
	}
	return 0
}

// Validate checks field constraints.
func (c *Global) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if r := c.Separator(); unicode.IsDigit(r) || r == '-' {
		return fmt.Errorf("invalid config: thousands_separator %q must not be a digit or '-'", c.ThousandsSeparator)
	}
	switch c.Delimiter {
	case "", ",", ";", "tab", "\t":
	default:
		return fmt.Errorf("invalid config: unsupported delimiter %q (use ',' | ';' | 'tab')", c.Delimiter)
	}
	return nil
}

// DefaultPath returns ~/.salescope/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".salescope", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sales_path", "supermarket_sales.csv")
	v.SetDefault("quality_path", "apple_quality.csv")
	v.SetDefault("output_dir", "salescope-out")
	v.SetDefault("delimiter", "")
	v.SetDefault("charts", true)
	v.SetDefault("chart_format", "png")
	v.SetDefault("narrative", true)
	v.SetDefault("narrative_style", "plain")
	v.SetDefault("narrative_width", 100)
	v.SetDefault("export_xlsx", "")
	v.SetDefault("thousands_separator", ".")
	v.SetDefault("log_format", "console")
	// Sales columns
	v.SetDefault("columns.region", "City")
	v.SetDefault("columns.segment", "Customer type")
	v.SetDefault("columns.category", "Product line")
	v.SetDefault("columns.gender", "Gender")
	v.SetDefault("columns.amount", "Total")
	v.SetDefault("columns.date", "Date")
	v.SetDefault("columns.date_layout", "1/2/2006")
	// Quality table
	v.SetDefault("quality.label", "Quality")
	v.SetDefault("quality.features", []string{})
	v.SetDefault("quality.exclude", []string{"A_id"})
	// Model defaults
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.test_size", 0.3)
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.max_depth", 0)
	v.SetDefault("model.regression_test_size", 0.2)
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() (*Global, error) {
	v := viper.New()
	setDefaults(v)
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".salescope"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
