// Package core has core logic for deriving, bucketing and reporting issue metrics.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/cadence/core/agg"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/outwriter"
	"github.com/huangsam/cadence/schema"
)

// BuildProjectReports derives metrics from raw rows and builds one report per
// project, in sorted project order. The bucket grid spans the whole record set
// even when a project filter is applied.
func BuildProjectReports(raw []schema.RawRecord, cfg *contract.Config) ([]schema.ProjectReport, error) {
	records := DeriveRecords(raw)
	grid, ok := agg.NewGrid(records, cfg.BucketDays, cfg.Anchor)
	if !ok {
		return nil, contract.ErrNoProjects
	}
	rows := agg.Aggregate(records, grid)

	projects := agg.Projects(rows)
	if cfg.ProjectFilter != "" {
		projects = filterProjects(projects, cfg.ProjectFilter)
		if len(projects) == 0 {
			return nil, fmt.Errorf("project %q: %w", cfg.ProjectFilter, contract.ErrNoProjects)
		}
	}
	if len(projects) == 0 {
		return nil, contract.ErrNoProjects
	}

	reports := make([]schema.ProjectReport, 0, len(projects))
	for _, p := range projects {
		report := NewProjectReportBuilder(cfg, p, agg.ForProject(rows, p), records).
			DetectChanges().
			ResampleMeans().
			Describe().
			Build()
		reports = append(reports, report)
	}
	return reports, nil
}

// filterProjects keeps the project whose name matches exactly.
func filterProjects(projects []string, name string) []string {
	for _, p := range projects {
		if p == name {
			return []string{p}
		}
	}
	return nil
}

// GetBucketResults loads records from the source and builds every project report.
// It prints nothing, which makes it safe for the MCP transport.
func GetBucketResults(ctx context.Context, cfg *contract.Config, source contract.RecordSource) ([]schema.ProjectReport, error) {
	raw, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", source.Name(), err)
	}
	return BuildProjectReports(raw, cfg)
}

// ExecuteBuckets prints the bucket table of every project using the configured output format.
func ExecuteBuckets(ctx context.Context, cfg *contract.Config, source contract.RecordSource) error {
	start := time.Now()
	reports, err := GetBucketResults(ctx, cfg, source)
	if err != nil {
		return err
	}
	return outwriter.WriteBuckets(reports, cfg, time.Since(start))
}

// ExecuteReport is the main entry point for the 'report' command. It writes the
// two charts and the summary block of each project and prints the console totals.
//
// A failing project is logged and skipped. The run fails only when every
// project fails or the context is cancelled.
func ExecuteReport(ctx context.Context, cfg *contract.Config, source contract.RecordSource, renderer contract.ChartRenderer, sink contract.SummarySink, out io.Writer) error {
	start := time.Now()
	reports, err := GetBucketResults(ctx, cfg, source)
	if err != nil {
		return err
	}

	var errs []error
	for _, report := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emitProject(cfg, report, renderer, sink, out); err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot report project %s", report.Project), err)
			errs = append(errs, fmt.Errorf("%s: %w", report.Project, err))
		}
	}
	if len(errs) == len(reports) {
		return fmt.Errorf("all %d projects failed: %w", len(reports), errors.Join(errs...))
	}
	contract.LogInfo("Reported %d projects in %v. Summary: %s", len(reports)-len(errs), time.Since(start), cfg.SummaryPath())
	return nil
}

// emitProject writes every artifact of one project. Each step runs even when
// an earlier one fails, and a panic in any step becomes an error.
func emitProject(cfg *contract.Config, report schema.ProjectReport, renderer contract.ChartRenderer, sink contract.SummarySink, out io.Writer) error {
	steps := []func() error{
		func() error {
			return renderer.RenderTimeseries(report, cfg.ChartPath(report.Project, schema.TimeseriesSuffix))
		},
		func() error {
			return renderer.RenderHistogram(report, cfg.ChartPath(report.Project, schema.HistogramSuffix))
		},
		func() error {
			return writeTotals(out, report)
		},
		func() error {
			return sink.Append(report)
		},
	}
	var errs []error
	for _, step := range steps {
		if err := safeRun(step); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// safeRun invokes fn and converts a panic into an error.
func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return fn()
}

// writeTotals prints the story point total and story count of a project.
func writeTotals(w io.Writer, report schema.ProjectReport) error {
	if _, err := fmt.Fprintf(w, "%s story points: %g\n", report.Project, report.TotalStoryPoints()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s story count: %d\n", report.Project, len(report.Records))
	return err
}
