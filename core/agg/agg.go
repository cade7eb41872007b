// Package agg has bucketing and aggregation logic for issue records.
package agg

import (
	"math"
	"sort"
	"time"

	"github.com/huangsam/cadence/schema"
)

// bucketKey identifies one (bucket, project) group.
type bucketKey struct {
	index   int
	project string
}

// bucketAcc accumulates the records of one group.
type bucketAcc struct {
	storyPoints float64
	cycleSum    float64
	cycleN      int
	count       int
	unresolved  int
}

// add folds a record into the accumulator. Only finite cycle times reach the mean.
func (a *bucketAcc) add(r schema.IssueRecord) {
	a.storyPoints += r.StoryPoints
	a.count += r.Count
	switch {
	case r.IsUnresolved():
		a.unresolved++
	case !math.IsNaN(r.CycleTime) && !math.IsInf(r.CycleTime, 0):
		a.cycleSum += r.CycleTime
		a.cycleN++
	}
}

// meanCycle returns the finite cycle time mean, NaN when the group has none.
func (a *bucketAcc) meanCycle() float64 {
	if a.cycleN == 0 {
		return math.NaN()
	}
	return a.cycleSum / float64(a.cycleN)
}

// bucketable reports whether a record can be placed on the grid.
func bucketable(r schema.IssueRecord) bool {
	return r.Date != nil && r.Project != ""
}

// Aggregate groups records by (bucket, project) and computes the story point
// sum, the finite cycle time mean and the record count of each group.
// Rows are ordered by bucket then project; empty groups are omitted.
func Aggregate(records []schema.IssueRecord, grid Grid) []schema.BucketRow {
	groups := make(map[bucketKey]*bucketAcc)
	for _, r := range records {
		if !bucketable(r) {
			continue
		}
		key := bucketKey{index: grid.Index(*r.Date), project: r.Project}
		acc, ok := groups[key]
		if !ok {
			acc = &bucketAcc{}
			groups[key] = acc
		}
		acc.add(r)
	}

	keys := make([]bucketKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].index != keys[j].index {
			return keys[i].index < keys[j].index
		}
		return keys[i].project < keys[j].project
	})

	rows := make([]schema.BucketRow, len(keys))
	for i, k := range keys {
		acc := groups[k]
		rows[i] = schema.BucketRow{
			Project:     k.project,
			BucketEnd:   grid.Label(k.index),
			StoryPoints: acc.storyPoints,
			CycleTime:   acc.meanCycle(),
			Count:       acc.count,
			Unresolved:  acc.unresolved,
		}
	}
	return rows
}

// ResampleMeans computes the running-mean overlay for one project's records.
// The grid is anchored on the project's own earliest record, and every bucket
// from the first to the last non-empty one is emitted; gaps carry NaN.
func ResampleMeans(project string, records []schema.IssueRecord, bucketDays int, anchor time.Weekday) []schema.MeanRow {
	var dated []schema.IssueRecord
	for _, r := range records {
		if r.Project == project && bucketable(r) {
			dated = append(dated, r)
		}
	}
	grid, ok := NewGrid(dated, bucketDays, anchor)
	if !ok {
		return nil
	}

	groups := make(map[int]*bucketAcc)
	last := 0
	for _, r := range dated {
		idx := grid.Index(*r.Date)
		acc, ok := groups[idx]
		if !ok {
			acc = &bucketAcc{}
			groups[idx] = acc
		}
		acc.add(r)
		last = max(last, idx)
	}

	rows := make([]schema.MeanRow, last+1)
	for i := range rows {
		rows[i] = schema.MeanRow{
			Project:     project,
			BucketEnd:   grid.Label(i),
			StoryPoints: math.NaN(),
			CycleTime:   math.NaN(),
			Count:       math.NaN(),
		}
		acc, ok := groups[i]
		if !ok || acc.count == 0 {
			continue
		}
		n := float64(acc.count)
		rows[i].StoryPoints = acc.storyPoints / n
		rows[i].CycleTime = acc.meanCycle()
		rows[i].Count = 1 // mean of the constant unit column
	}
	return rows
}

// Projects returns the sorted distinct project names among bucket rows.
func Projects(rows []schema.BucketRow) []string {
	seen := make(map[string]struct{})
	var projects []string
	for _, r := range rows {
		if _, ok := seen[r.Project]; ok {
			continue
		}
		seen[r.Project] = struct{}{}
		projects = append(projects, r.Project)
	}
	sort.Strings(projects)
	return projects
}

// ForProject returns the rows of one project, keeping chronological order.
func ForProject(rows []schema.BucketRow, project string) []schema.BucketRow {
	var out []schema.BucketRow
	for _, r := range rows {
		if r.Project == project {
			out = append(out, r)
		}
	}
	return out
}

// RecordsForProject returns every record of one project, dated or not.
func RecordsForProject(records []schema.IssueRecord, project string) []schema.IssueRecord {
	var out []schema.IssueRecord
	for _, r := range records {
		if r.Project == project {
			out = append(out, r)
		}
	}
	return out
}

// MetricValues extracts one metric column from bucket rows, in order.
func MetricValues(rows []schema.BucketRow, metric schema.Metric) []float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		switch metric {
		case schema.StoryPointsMetric:
			values[i] = r.StoryPoints
		case schema.CycleTimeMetric:
			values[i] = r.CycleTime
		case schema.CountMetric:
			values[i] = float64(r.Count)
		default:
			values[i] = math.NaN()
		}
	}
	return values
}
