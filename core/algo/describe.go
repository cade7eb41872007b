package algo

import (
	"math"
	"sort"

	"github.com/huangsam/cadence/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Column names used in describe tables.
const (
	StoryPointsColumn       = "story_points"
	CycleTimeColumn         = "cycle_time"
	CountColumn             = "count"
	DescriptionLengthColumn = "length"
)

// DescribeColumn computes count, mean, std, min, quartiles and max of values.
// NaN entries are ignored. An empty column yields NaN everywhere and std
// needs at least two values.
func DescribeColumn(name string, values []float64) schema.ColumnStats {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	nan := math.NaN()
	cs := schema.ColumnStats{
		Name:  name,
		Count: len(clean),
		Mean:  nan,
		Std:   nan,
		Min:   nan,
		Q25:   nan,
		Q50:   nan,
		Q75:   nan,
		Max:   nan,
	}
	if len(clean) == 0 {
		return cs
	}
	sort.Float64s(clean)
	cs.Mean = stat.Mean(clean, nil)
	if len(clean) > 1 {
		cs.Std = stat.StdDev(clean, nil)
	}
	cs.Min = floats.Min(clean)
	cs.Max = floats.Max(clean)
	cs.Q25 = Quantile(clean, 0.25)
	cs.Q50 = Quantile(clean, 0.50)
	cs.Q75 = Quantile(clean, 0.75)
	return cs
}

// Quantile returns the p-quantile of sorted values, interpolating linearly
// between the two closest ranks at position (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// DescribeRecords summarises the numeric columns of one project's records.
// Cycle time only includes finite values; unresolved records are counted apart.
func DescribeRecords(records []schema.IssueRecord) schema.Describe {
	points := make([]float64, 0, len(records))
	cycles := make([]float64, 0, len(records))
	counts := make([]float64, 0, len(records))
	unresolved := 0
	for _, r := range records {
		points = append(points, r.StoryPoints)
		counts = append(counts, float64(r.Count))
		if r.IsUnresolved() {
			unresolved++
			continue
		}
		if !math.IsInf(r.CycleTime, 0) {
			cycles = append(cycles, r.CycleTime)
		}
	}
	return schema.Describe{
		Columns: []schema.ColumnStats{
			DescribeColumn(StoryPointsColumn, points),
			DescribeColumn(CycleTimeColumn, cycles),
			DescribeColumn(CountColumn, counts),
		},
		Unresolved: unresolved,
	}
}

// DescriptionLengths returns each record's description length, 0 when missing.
func DescriptionLengths(records []schema.IssueRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.DescriptionLength())
	}
	return out
}

// DescribeLengths summarises description lengths.
func DescribeLengths(lengths []float64) schema.Describe {
	return schema.Describe{
		Columns: []schema.ColumnStats{DescribeColumn(DescriptionLengthColumn, lengths)},
	}
}
