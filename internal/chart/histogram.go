package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/cadence/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// DefaultBins is the bin count of the cycle time and description histograms.
const DefaultBins = 20

// MaxUnitBins caps unit-width bins; wider ranges fall back to DefaultBins even bins.
const MaxUnitBins = 500

// histogramPanels builds the story point, cycle time and description length panels.
func histogramPanels(report schema.ProjectReport) ([]*plot.Plot, error) {
	points := make([]float64, 0, len(report.Records))
	cycles := make([]float64, 0, len(report.Records))
	for _, r := range report.Records {
		points = append(points, r.StoryPoints)
		if isFinite(r.CycleTime) {
			cycles = append(cycles, r.CycleTime)
		}
	}

	specs := []struct {
		title  string
		xLabel string
		values []float64
		edges  func(lo, hi float64) []float64
	}{
		{
			title:  fmt.Sprintf("Story Point Histogram: %s", report.Project),
			xLabel: "Story Size (points)",
			values: points,
			edges:  UnitEdges,
		},
		{
			title:  fmt.Sprintf("Cycle Time Histogram: %s", report.Project),
			xLabel: "Cycle Time (days)",
			values: cycles,
			edges:  func(lo, hi float64) []float64 { return EvenEdges(lo, hi, DefaultBins) },
		},
		{
			title:  fmt.Sprintf("Description Length Histogram: %s", report.Project),
			xLabel: "Description Length",
			values: report.DescriptionLengths,
			edges:  func(lo, hi float64) []float64 { return EvenEdges(lo, hi, DefaultBins) },
		},
	}

	panels := make([]*plot.Plot, 0, len(specs))
	for _, s := range specs {
		p := plot.New()
		p.Title.Text = s.title
		p.X.Label.Text = s.xLabel
		p.Y.Label.Text = "Count"

		bins := HistogramBins(s.values, s.edges)
		if len(bins) == 0 {
			// Nothing to draw; keep a fixed frame so the axes render
			p.X.Min, p.X.Max = 0, 1
			p.Y.Min, p.Y.Max = 0, 1
			panels = append(panels, p)
			continue
		}
		h := &plotter.Histogram{
			Bins:      bins,
			Width:     bins[0].Max - bins[0].Min,
			FillColor: BarColor,
			LineStyle: plotter.DefaultLineStyle,
		}
		p.Add(h)
		panels = append(panels, p)
	}
	return panels, nil
}

// HistogramBins counts finite values into the bins produced by edges.
// The last bin is closed on the right. Empty input yields no bins.
func HistogramBins(values []float64, edges func(lo, hi float64) []float64) []plotter.HistogramBin {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	sort.Float64s(clean)
	lo, hi := clean[0], clean[len(clean)-1]

	e := edges(lo, hi)
	if len(e) < 2 {
		return nil
	}
	dividers := append([]float64(nil), e...)
	last := len(dividers) - 1
	if dividers[last] <= hi {
		dividers[last] = math.Nextafter(hi, math.Inf(1))
	}
	counts := stat.Histogram(nil, dividers, clean, nil)

	bins := make([]plotter.HistogramBin, len(counts))
	for i, c := range counts {
		bins[i] = plotter.HistogramBin{Min: e[i], Max: e[i+1], Weight: c}
	}
	return bins
}

// UnitEdges returns unit-width bin edges starting at lo and covering hi.
// A degenerate range yields a single bin. Ranges needing more than
// MaxUnitBins bins get DefaultBins even bins instead.
func UnitEdges(lo, hi float64) []float64 {
	if hi-lo > MaxUnitBins {
		return EvenEdges(lo, hi, DefaultBins)
	}
	edges := []float64{lo, lo + 1}
	for k := 2; edges[len(edges)-1] < hi; k++ {
		edges = append(edges, lo+float64(k))
	}
	return edges
}

// EvenEdges returns n equal-width bins spanning lo to hi. A degenerate range
// is widened by half a unit on each side.
func EvenEdges(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	return floats.Span(make([]float64, n+1), lo, hi)
}
