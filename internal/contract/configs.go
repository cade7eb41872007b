package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/cadence/schema"
)

// Default values for configuration.
const (
	DefaultBucketDays = 14
	DefaultWindow     = 2
	DefaultThreshold  = 1.0
	DefaultPrecision  = 1
	MaxPrecision      = 6
	DefaultAnchor     = "sunday"
	DefaultInputDir   = "raw_data"
	DefaultOutputDir  = "."
)

// DefaultSourceQuery selects the exported columns from an issues table.
const DefaultSourceQuery = `SELECT summary, project_name, story_points, description, updated, created, resolved FROM issues`

// DateFormat is the date representation used in tables and CSV output.
var DateFormat = time.DateOnly

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a report run.
// This struct is the "final, validated" config.
type Config struct {
	InputDir    string
	OutputDir   string
	SummaryFile string
	ImageFormat schema.ImageFormat

	BucketDays int
	Anchor     time.Weekday
	Window     int
	Threshold  float64

	ProjectFilter string
	Precision     int
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)
	UseColors     bool

	SourceBackend   schema.DatabaseBackend
	SourceDBConnect string // Please use env var as this is plaintext
	SourceQuery     string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputDir       string  `mapstructure:"output-dir"`
	SummaryFile     string  `mapstructure:"summary-file"`
	ImageFormat     string  `mapstructure:"image-format"`
	BucketDays      int     `mapstructure:"bucket-days"`
	Anchor          string  `mapstructure:"anchor"`
	Window          int     `mapstructure:"window"`
	Threshold       float64 `mapstructure:"threshold"`
	Project         string  `mapstructure:"project"`
	Precision       int     `mapstructure:"precision"`
	Output          string  `mapstructure:"output"`
	OutputFile      string  `mapstructure:"output-file"`
	Width           int     `mapstructure:"width"`
	Color           string  `mapstructure:"color"`
	SourceBackend   string  `mapstructure:"source-backend"`
	SourceDBConnect string  `mapstructure:"source-db-connect"`
	SourceQuery     string  `mapstructure:"source-query"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SummaryPath returns the full path of the summary report.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.OutputDir, c.SummaryFile)
}

// ChartPath returns the full path of a project chart with the given suffix.
func (c *Config) ChartPath(project, suffix string) string {
	return filepath.Join(c.OutputDir, schema.ChartFileName(project, suffix, c.ImageFormat))
}

// UsesDatabase reports whether records come from a SQL source instead of CSV files.
func (c *Config) UsesDatabase() bool {
	return c.SourceBackend != "" && c.SourceBackend != schema.NoneBackend
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBucketing(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(cfg, input); err != nil {
		return err
	}
	if err := resolvePaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.NoneBackend:
		return nil
	case schema.SQLiteBackend:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s backend", backend)
		}
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ProjectFilter = strings.TrimSpace(input.Project)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 2. Image Format Validation ---
	format := strings.ToLower(strings.TrimPrefix(input.ImageFormat, "."))
	if format == "jpeg" {
		format = string(schema.JPEGImage)
	}
	cfg.ImageFormat = schema.ImageFormat(format)
	if _, ok := schema.ValidImageFormats[cfg.ImageFormat]; !ok {
		return fmt.Errorf("invalid image format '%s'. must be png, jpg", input.ImageFormat)
	}

	return nil
}

// processBucketing handles the bucket grid and change detection parameters.
func processBucketing(cfg *Config, input *ConfigRawInput) error {
	if input.BucketDays <= 0 {
		return fmt.Errorf("bucket-days must be greater than 0 (received %d)", input.BucketDays)
	}
	cfg.BucketDays = input.BucketDays

	anchor, err := ParseWeekday(input.Anchor)
	if err != nil {
		return err
	}
	cfg.Anchor = anchor

	if input.Window < 2 {
		return fmt.Errorf("window must be at least 2 (received %d)", input.Window)
	}
	cfg.Window = input.Window

	if input.Threshold < 0 {
		return fmt.Errorf("threshold cannot be negative (received %.2f)", input.Threshold)
	}
	cfg.Threshold = input.Threshold

	return nil
}

// validateSourceConfig validates the record source backend configuration.
func validateSourceConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceBackend = schema.DatabaseBackend(strings.ToLower(input.SourceBackend))
	if cfg.SourceBackend == "" {
		cfg.SourceBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SourceBackend]; !ok {
		return fmt.Errorf("invalid source backend '%s'. must be sqlite, mysql, postgresql, none", input.SourceBackend)
	}
	cfg.SourceDBConnect = input.SourceDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceDBConnect); err != nil {
		return err
	}
	cfg.SourceQuery = strings.TrimSpace(input.SourceQuery)
	if cfg.SourceQuery == "" {
		cfg.SourceQuery = DefaultSourceQuery
	}
	return nil
}

// resolvePaths resolves the input directory and output locations.
func resolvePaths(cfg *Config, input *ConfigRawInput) error {
	cfg.SummaryFile = strings.TrimSpace(input.SummaryFile)
	if cfg.SummaryFile == "" {
		cfg.SummaryFile = schema.DefaultSummaryFile
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absOutput)
	if err != nil {
		return fmt.Errorf("output directory %q is not accessible: %w", outputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %q is not a directory", outputDir)
	}
	cfg.OutputDir = absOutput

	// The input directory only matters for the CSV source
	if cfg.UsesDatabase() {
		return nil
	}
	inputDir := input.InputDirStr
	if inputDir == "" {
		inputDir = DefaultInputDir
	}
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return err
	}
	cfg.InputDir = filepath.Clean(absInput)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
