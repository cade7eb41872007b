package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, rooted at dir.
func validInput(dir string) *ConfigRawInput {
	return &ConfigRawInput{
		InputDirStr: filepath.Join(dir, "raw_data"),
		OutputDir:   dir,
		ImageFormat: "png",
		BucketDays:  DefaultBucketDays,
		Anchor:      DefaultAnchor,
		Window:      DefaultWindow,
		Threshold:   DefaultThreshold,
		Precision:   DefaultPrecision,
		Output:      "text",
		Color:       "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "jpeg alias", mutate: func(in *ConfigRawInput) { in.ImageFormat = "JPEG" }},
		{name: "monday anchor", mutate: func(in *ConfigRawInput) { in.Anchor = "mon" }},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet needs a file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "requires --output-file"},
		{name: "invalid image format", mutate: func(in *ConfigRawInput) { in.ImageFormat = "gif" }, expectError: "invalid image format"},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: "invalid --color"},
		{name: "precision too low", mutate: func(in *ConfigRawInput) { in.Precision = 0 }, expectError: "precision must be"},
		{name: "zero bucket width", mutate: func(in *ConfigRawInput) { in.BucketDays = 0 }, expectError: "bucket-days"},
		{name: "bad anchor", mutate: func(in *ConfigRawInput) { in.Anchor = "someday" }, expectError: "invalid anchor"},
		{name: "window too small", mutate: func(in *ConfigRawInput) { in.Window = 1 }, expectError: "window must be"},
		{name: "negative threshold", mutate: func(in *ConfigRawInput) { in.Threshold = -1 }, expectError: "threshold cannot be negative"},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.SourceBackend = "oracle" }, expectError: "invalid source backend"},
		{name: "sqlite needs a path", mutate: func(in *ConfigRawInput) { in.SourceBackend = "sqlite" }, expectError: "source-db-connect is required"},
		{name: "missing output dir", mutate: func(in *ConfigRawInput) { in.OutputDir = "/definitely/not/here" }, expectError: "not accessible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(t.TempDir())
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	dir := t.TempDir()
	input := validInput(dir)
	input.InputDirStr = ""
	input.Anchor = "Sunday"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, time.Sunday, cfg.Anchor)
	assert.Equal(t, schema.NoneBackend, cfg.SourceBackend)
	assert.Equal(t, DefaultSourceQuery, cfg.SourceQuery)
	assert.Equal(t, schema.DefaultSummaryFile, cfg.SummaryFile)
	assert.Equal(t, schema.PNGImage, cfg.ImageFormat)
	assert.True(t, filepath.IsAbs(cfg.InputDir))
	assert.Equal(t, DefaultInputDir, filepath.Base(cfg.InputDir))
	assert.Equal(t, filepath.Join(cfg.OutputDir, "summary_data.txt"), cfg.SummaryPath())
	assert.Equal(t, filepath.Join(cfg.OutputDir, "ops_infra-Hist.png"), cfg.ChartPath("ops/infra", schema.HistogramSuffix))
	assert.False(t, cfg.UsesDatabase())
}

func TestProcessAndValidate_DatabaseSource(t *testing.T) {
	input := validInput(t.TempDir())
	input.SourceBackend = "SQLite"
	input.SourceDBConnect = filepath.Join(t.TempDir(), "issues.db")
	input.SourceQuery = "  SELECT * FROM jira  "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.SQLiteBackend, cfg.SourceBackend)
	assert.Equal(t, "SELECT * FROM jira", cfg.SourceQuery)
	assert.True(t, cfg.UsesDatabase())
	assert.Empty(t, cfg.InputDir)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"none ignores connection", schema.NoneBackend, "", false},
		{"sqlite path", schema.SQLiteBackend, "/tmp/issues.db", false},
		{"sqlite empty", schema.SQLiteBackend, "", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/jira", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/jira", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=jira", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=jira", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{ProjectFilter: "Platform", Window: 2}
	clone := cfg.Clone()
	clone.ProjectFilter = "Data"
	assert.Equal(t, "Platform", cfg.ProjectFilter)
	assert.Equal(t, 2, clone.Window)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "run"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "run", profile.Prefix)
}
