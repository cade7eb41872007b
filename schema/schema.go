// Package schema has configs, models and constants for all parts of cadence.
package schema

import (
	"math"
	"time"
)

// NullString is a cell value that may be absent from the input.
type NullString struct {
	Value string
	Valid bool
}

// RawRecord is one input row before any parsing or derivation happens.
// Every field is optional because exports from different queries carry
// different column sets.
type RawRecord struct {
	Source      string // File name or source label the row came from
	Summary     NullString
	Project     NullString
	StoryPoints NullString
	Description NullString
	Updated     NullString
	Created     NullString
	Resolved    NullString
}

// IssueRecord represents one tracked work item after metric derivation.
type IssueRecord struct {
	Project     string
	Summary     string
	Created     *time.Time // nil when missing or unparsable
	Updated     *time.Time // nil when missing or unparsable
	Resolved    *time.Time // nil when the issue is unresolved
	StoryPoints float64
	Description *string
	CycleTime   float64    // Whole days, or +Inf when unresolved
	Count       int        // Always 1; used as an aggregation unit
	Date        *time.Time // Resolved, falling back to Updated
}

// IsUnresolved reports whether the record carries the unresolved sentinel.
func (r IssueRecord) IsUnresolved() bool {
	return math.IsInf(r.CycleTime, 1)
}

// DescriptionLength returns the description length in characters, treating a
// missing description as empty.
func (r IssueRecord) DescriptionLength() int {
	if r.Description == nil {
		return 0
	}
	return len([]rune(*r.Description))
}

// BucketRow is the aggregate of one project within one time bucket.
type BucketRow struct {
	Project     string
	BucketEnd   time.Time
	StoryPoints float64 // Sum of story points
	CycleTime   float64 // Mean of finite cycle times, NaN when none
	Count       int     // Number of records
	Unresolved  int     // Records excluded from the cycle time mean
}

// MeanRow is one bucket of the resampled running-mean overlay series.
// Buckets without records carry NaN in every metric.
type MeanRow struct {
	Project     string
	BucketEnd   time.Time
	StoryPoints float64
	CycleTime   float64
	Count       float64
}

// MetricSeries holds the change detection intermediates for one bucketed metric.
type MetricSeries struct {
	Metric     Metric
	Values     []float64
	RollingStd []float64
	Cusum      []float64
	Changes    []float64 // 1 at change points, 0 elsewhere
}

// ChangeIndices returns the bucket positions flagged as change points.
func (s MetricSeries) ChangeIndices() []int {
	var idx []int
	for i, v := range s.Changes {
		if v == 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// ProjectReport is everything the report emitter needs for one project.
type ProjectReport struct {
	Project            string
	Buckets            []BucketRow
	Means              []MeanRow
	Series             map[Metric]MetricSeries
	Records            []IssueRecord
	DescriptionLengths []float64
	RecordStats        Describe
	DescriptionStats   Describe
}

// TotalStoryPoints sums the story points of every record in the project.
func (p ProjectReport) TotalStoryPoints() float64 {
	var total float64
	for _, r := range p.Records {
		total += r.StoryPoints
	}
	return total
}
