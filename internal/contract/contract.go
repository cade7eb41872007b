// Package contract provides interfaces and shared utilities for cadence's internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/cadence/schema"
)

// Sentinel errors shared across packages.
var (
	// ErrNoInput means the record source had nothing to read.
	ErrNoInput = errors.New("no input records found")

	// ErrNoProjects means no record could be placed in a time bucket.
	ErrNoProjects = errors.New("no projects with dated records")
)

// RecordSource loads raw issue records from somewhere.
// This allows the pipeline to be tested without touching disk or a database.
type RecordSource interface {
	// Load returns every raw record in source order.
	// It returns ErrNoInput when the source is missing or empty.
	Load(ctx context.Context) ([]schema.RawRecord, error)

	// Name describes the source for log lines.
	Name() string
}

// ChartRenderer draws the per-project chart images.
type ChartRenderer interface {
	// RenderTimeseries writes the three-panel bucket chart to path.
	RenderTimeseries(report schema.ProjectReport, path string) error

	// RenderHistogram writes the three-panel distribution chart to path.
	RenderHistogram(report schema.ProjectReport, path string) error
}

// SummarySink receives one descriptive statistics block per project.
type SummarySink interface {
	Append(report schema.ProjectReport) error
}
