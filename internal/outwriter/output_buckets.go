package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/parquet"
	"github.com/huangsam/cadence/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBuckets outputs the bucket tables, dispatching based on the output format configured.
func WriteBuckets(reports []schema.ProjectReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketsJSON(w, reports)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketsCSV(w, reports, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBucketsParquet(parquet.ToBucketRecords(reports), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.LogInfo("Wrote Parquet to %s", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketsTable(w, reports, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// jsonProject is one project of the JSON output.
type jsonProject struct {
	schema.ProjectSummary
	Buckets []schema.BucketOutput `json:"buckets"`
}

// writeBucketsJSON writes every project summary followed by its buckets.
func writeBucketsJSON(w io.Writer, reports []schema.ProjectReport) error {
	output := make([]jsonProject, len(reports))
	for i, r := range reports {
		output[i] = jsonProject{
			ProjectSummary: schema.Summarize(r),
			Buckets:        schema.ToBucketOutputs(r),
		}
	}
	return writeJSON(w, output)
}

// bucketCSVHeader lists the CSV columns of the bucket export.
var bucketCSVHeader = []string{
	"project",
	"bucket_end",
	"story_points",
	"cycle_time",
	"count",
	"unresolved",
	"story_points_std",
	"cycle_time_std",
	"count_std",
	"story_points_change",
	"cycle_time_change",
	"count_change",
}

// writeBucketsCSV writes one flat row per (project, bucket). Missing values are empty.
func writeBucketsCSV(w io.Writer, reports []schema.ProjectReport, fmtFloat func(float64) string) error {
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmtFloat(*v)
	}
	return writeCSVWithHeader(w, bucketCSVHeader, func(cw *csv.Writer) error {
		for _, r := range reports {
			for _, b := range schema.ToBucketOutputs(r) {
				rec := []string{
					b.Project,
					b.BucketEnd.Format(contract.DateFormat),
					fmtFloat(b.StoryPoints),
					optional(b.CycleTime),
					strconv.Itoa(b.Count),
					strconv.Itoa(b.Unresolved),
					optional(b.StoryPointsStd),
					optional(b.CycleTimeStd),
					optional(b.CountStd),
					contract.GetPlainLabel(b.StoryPointsChange),
					contract.GetPlainLabel(b.CycleTimeChange),
					contract.GetPlainLabel(b.CountChange),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeBucketsTable generates and writes the human-readable table.
func writeBucketsTable(w io.Writer, reports []schema.ProjectReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Project", "Bucket End", "Points", "Cycle", "Count", "Points Std", "Cycle Std", "Count Std", "Points Δ", "Cycle Δ", "Count Δ"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}
	opt := func(v *float64) string {
		if v == nil {
			return MissingValue
		}
		return fmtFloat(*v)
	}

	// 3. Populate Rows
	var data [][]string
	buckets := 0
	for _, r := range reports {
		for _, b := range schema.ToBucketOutputs(r) {
			data = append(data, []string{
				contract.TruncateText(b.Project, GetMaxTableProjectWidth(cfg)),
				b.BucketEnd.Format(contract.DateFormat),
				fmtFloat(b.StoryPoints),
				opt(b.CycleTime),
				fmt.Sprintf(intFmt, b.Count),
				opt(b.StoryPointsStd),
				opt(b.CycleTimeStd),
				opt(b.CountStd),
				label(b.StoryPointsChange),
				label(b.CycleTimeChange),
				label(b.CountChange),
			})
			buckets++
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d buckets across %d projects (bucket: %d days, anchor: %s)\n", buckets, len(reports), cfg.BucketDays, cfg.Anchor); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Source backend: %s\n", duration, cfg.SourceBackend); err != nil {
		return err
	}
	return nil
}
