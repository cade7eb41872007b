package schema

import (
	"math"
	"time"
)

// BucketOutput is the serialisable form of one bucket with its variability data.
// Non-finite numbers become nil so JSON encoders accept them.
type BucketOutput struct {
	Project     string    `json:"project"`
	BucketEnd   time.Time `json:"bucket_end"`
	StoryPoints float64   `json:"story_points"`
	CycleTime   *float64  `json:"cycle_time"`
	Count       int       `json:"count"`
	Unresolved  int       `json:"unresolved"`

	StoryPointsStd *float64 `json:"story_points_std"`
	CycleTimeStd   *float64 `json:"cycle_time_std"`
	CountStd       *float64 `json:"count_std"`

	StoryPointsChange bool `json:"story_points_change"`
	CycleTimeChange   bool `json:"cycle_time_change"`
	CountChange       bool `json:"count_change"`
}

// ProjectSummary is the serialisable per-project overview.
type ProjectSummary struct {
	Project          string  `json:"project"`
	Records          int     `json:"records"`
	Buckets          int     `json:"buckets"`
	TotalStoryPoints float64 `json:"total_story_points"`
	Unresolved       int     `json:"unresolved"`
	Changes          int     `json:"changes"`
}

// FiniteOrNil returns a pointer to v, or nil when v is NaN or infinite.
func FiniteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// seriesAt returns the value at i, or NaN when the series is too short.
func seriesAt(values []float64, i int) float64 {
	if i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i]
}

// ToBucketOutputs flattens a project report into one output row per bucket.
func ToBucketOutputs(report ProjectReport) []BucketOutput {
	sp := report.Series[StoryPointsMetric]
	ct := report.Series[CycleTimeMetric]
	cn := report.Series[CountMetric]

	output := make([]BucketOutput, len(report.Buckets))
	for i, b := range report.Buckets {
		output[i] = BucketOutput{
			Project:           b.Project,
			BucketEnd:         b.BucketEnd,
			StoryPoints:       b.StoryPoints,
			CycleTime:         FiniteOrNil(b.CycleTime),
			Count:             b.Count,
			Unresolved:        b.Unresolved,
			StoryPointsStd:    FiniteOrNil(seriesAt(sp.RollingStd, i)),
			CycleTimeStd:      FiniteOrNil(seriesAt(ct.RollingStd, i)),
			CountStd:          FiniteOrNil(seriesAt(cn.RollingStd, i)),
			StoryPointsChange: seriesAt(sp.Changes, i) == 1,
			CycleTimeChange:   seriesAt(ct.Changes, i) == 1,
			CountChange:       seriesAt(cn.Changes, i) == 1,
		}
	}
	return output
}

// Summarize builds the per-project overview from a report.
func Summarize(report ProjectReport) ProjectSummary {
	changes := 0
	for _, m := range AllMetrics {
		changes += len(report.Series[m].ChangeIndices())
	}
	unresolved := 0
	for _, r := range report.Records {
		if r.IsUnresolved() {
			unresolved++
		}
	}
	return ProjectSummary{
		Project:          report.Project,
		Records:          len(report.Records),
		Buckets:          len(report.Buckets),
		TotalStoryPoints: report.TotalStoryPoints(),
		Unresolved:       unresolved,
		Changes:          changes,
	}
}
