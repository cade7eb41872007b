package cmd

import (
	"os"

	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/chart"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/ingest"
	"github.com/huangsam/cadence/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd writes the charts and summary report for every project.
var reportCmd = &cobra.Command{
	Use:   "report [input-dir]",
	Short: "Write timeseries charts, histograms and a summary report per project.",
	Long: `Read every issue export in the input directory (default: raw_data) and
write three artifacts per project into the output directory:

- <project>-Timeseries.png: story points, mean cycle time and story count per
  bucket, with rolling standard deviation, the running mean and red markers
  where variability shifts
- <project>-Hist.png: story point, cycle time and description length histograms
- summary_data.txt: descriptive statistics per project, rewritten on every run

Examples:
  # Report on the exports in ./raw_data
  cadence report

  # Weekly buckets ending on Monday, written to ./out
  cadence report exports --bucket-days 7 --anchor monday --output-dir out

  # Read issues from a database instead of CSV files
  CADENCE_SOURCE_DB_CONNECT="host=db user=jira dbname=jira" cadence report --source-backend postgresql`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		source, err := ingest.NewSource(cfg)
		if err != nil {
			contract.LogFatal("Cannot open record source", err)
		}
		sink, err := outwriter.NewOutWriter().NewSummary(cfg)
		if err != nil {
			contract.LogFatal("Cannot create summary report", err)
		}
		renderer := chart.NewRenderer(cfg)
		if err := core.ExecuteReport(rootCtx, cfg, source, renderer, sink, os.Stdout); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
