// Package algo has the numeric routines behind change detection and summary statistics.
package algo

import (
	"math"

	"github.com/huangsam/cadence/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RollingStd returns the sample standard deviation over each trailing window.
// The first window-1 positions and any window containing NaN yield NaN.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if floats.HasNaN(w) {
			continue
		}
		out[i] = stat.StdDev(w, nil)
	}
	return out
}

// ZeroFill returns a copy of values with NaN replaced by 0.
func ZeroFill(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out
}

// Cusum returns the running sum of values.
func Cusum(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	return floats.CumSum(out, values)
}

// Lag shifts values right by one position and forces index 0 to 0.
func Lag(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) > 1 {
		copy(out[1:], values[:len(values)-1])
	}
	return out
}

// FlagChanges marks the positions where the cusum step exceeds threshold.
// The comparison is strict; equal steps are not changes.
func FlagChanges(cusum, lagged []float64, threshold float64) []float64 {
	out := make([]float64, len(cusum))
	for i := range cusum {
		if math.Abs(cusum[i]-lagged[i]) > threshold {
			out[i] = 1
		}
	}
	return out
}

// ChangesFromStd runs the cusum pipeline over an already computed rolling std.
func ChangesFromStd(rolling []float64, threshold float64) (cusum, changes []float64) {
	cusum = Cusum(ZeroFill(rolling))
	return cusum, FlagChanges(cusum, Lag(cusum), threshold)
}

// DetectChanges computes the rolling std, cusum and change flags of one
// bucketed metric. Every metric goes through the same steps.
func DetectChanges(metric schema.Metric, values []float64, window int, threshold float64) schema.MetricSeries {
	rolling := RollingStd(values, window)
	cusum, changes := ChangesFromStd(rolling, threshold)
	return schema.MetricSeries{
		Metric:     metric,
		Values:     append([]float64(nil), values...),
		RollingStd: rolling,
		Cusum:      cusum,
		Changes:    changes,
	}
}
