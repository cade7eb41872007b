// Package cmd defines the command-line interface for cadence.
package cmd

import (
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("anchor", contract.DefaultAnchor, "Weekday that buckets end on (sunday, mon, ...)")
	rootCmd.PersistentFlags().Int("bucket-days", contract.DefaultBucketDays, "Bucket width in days")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("image-format", string(schema.PNGImage), "Chart image format: png or jpg")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-dir", contract.DefaultOutputDir, "Directory for charts and the summary report")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().StringP("project", "p", "", "Only report the project with this exact name")
	rootCmd.PersistentFlags().String("summary-file", schema.DefaultSummaryFile, "File name of the summary report inside output-dir")
	rootCmd.PersistentFlags().Float64("threshold", contract.DefaultThreshold, "Cusum step of the rolling std that marks a change")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("window", contract.DefaultWindow, "Rolling window size in buckets")
	rootCmd.PersistentFlags().String("source-backend", string(schema.NoneBackend), "Record source: none (CSV files) or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Database connection string for the record source (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("source-query", contract.DefaultSourceQuery, "SQL query that returns the issue columns")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
