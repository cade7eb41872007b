package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/ingest"
	"github.com/spf13/cobra"
)

// bucketsCmd prints the bucket table with variability data.
var bucketsCmd = &cobra.Command{
	Use:   "buckets [input-dir]",
	Short: "Show per-project buckets with rolling std and change flags.",
	Long: `Aggregate issue records into fixed-width buckets per project and print the
bucket table: story point sum, mean cycle time, count, the rolling standard
deviation of each metric and whether the bucket starts a variability shift.

Examples:
  # Show every project as a table
  cadence buckets

  # Export one project as CSV
  cadence buckets --project Platform --output csv --output-file platform.csv

  # Export everything to Parquet for notebooks
  cadence buckets --output parquet --output-file buckets.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		source, err := ingest.NewSource(cfg)
		if err != nil {
			contract.LogFatal("Cannot open record source", err)
		}
		if err := core.ExecuteBuckets(rootCtx, cfg, source); err != nil {
			contract.LogFatal("Cannot run buckets", err)
		}
	},
}
