package core

import (
	"github.com/huangsam/cadence/core/agg"
	"github.com/huangsam/cadence/core/algo"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

// ProjectReportBuilder assembles the report of one project step by step.
type ProjectReportBuilder struct {
	cfg     *contract.Config
	report  *schema.ProjectReport
	records []schema.IssueRecord // All records of the run, not only this project
}

// NewProjectReportBuilder is the starting point for building a project report.
// The bucket rows must already be restricted to the project.
func NewProjectReportBuilder(cfg *contract.Config, project string, rows []schema.BucketRow, records []schema.IssueRecord) *ProjectReportBuilder {
	return &ProjectReportBuilder{
		cfg: cfg,
		report: &schema.ProjectReport{
			Project: project,
			Buckets: rows,
			Records: agg.RecordsForProject(records, project),
			Series:  make(map[schema.Metric]schema.MetricSeries, len(schema.AllMetrics)),
		},
		records: records,
	}
}

// DetectChanges runs the variability change detector over every bucketed metric.
func (b *ProjectReportBuilder) DetectChanges() *ProjectReportBuilder {
	for _, m := range schema.AllMetrics {
		values := agg.MetricValues(b.report.Buckets, m)
		b.report.Series[m] = algo.DetectChanges(m, values, b.cfg.Window, b.cfg.Threshold)
	}
	return b
}

// ResampleMeans computes the running-mean overlay on the project's own grid.
func (b *ProjectReportBuilder) ResampleMeans() *ProjectReportBuilder {
	b.report.Means = agg.ResampleMeans(b.report.Project, b.records, b.cfg.BucketDays, b.cfg.Anchor)
	return b
}

// Describe computes the descriptive statistics for the summary report.
func (b *ProjectReportBuilder) Describe() *ProjectReportBuilder {
	b.report.RecordStats = algo.DescribeRecords(b.report.Records)
	b.report.DescriptionLengths = algo.DescriptionLengths(b.report.Records)
	b.report.DescriptionStats = algo.DescribeLengths(b.report.DescriptionLengths)
	return b
}

// Build returns the final report.
func (b *ProjectReportBuilder) Build() schema.ProjectReport {
	return *b.report
}
