package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/huangsam/cadence/core/agg"
	"github.com/huangsam/cadence/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// panelTitle returns the title of a timeseries panel.
func panelTitle(m schema.Metric, period, project string) string {
	switch m {
	case schema.CycleTimeMetric:
		return fmt.Sprintf("%s Mean Cycle Time - %s", period, project)
	case schema.CountMetric:
		return fmt.Sprintf("%s Story Count - %s", period, project)
	default:
		return fmt.Sprintf("%s %s - %s", period, m.Title(), project)
	}
}

// timeseriesPanel draws one metric: the bucket line, its rolling std, the
// dashed resampled mean and red markers on change points.
func timeseriesPanel(report schema.ProjectReport, m schema.Metric, period string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panelTitle(m, period, report.Project)
	p.Y.Label.Text = m.Title()
	p.X.Tick.Marker = plot.TimeTicks{Format: time.DateOnly}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true
	p.Legend.Left = true

	xs := make([]float64, len(report.Buckets))
	for i, b := range report.Buckets {
		xs[i] = unixX(b.BucketEnd)
	}

	series, ok := report.Series[m]
	values := agg.MetricValues(report.Buckets, m)
	if ok && len(series.Values) == len(xs) {
		values = series.Values
	}

	if err := addSegments(p, xs, values, m.Title(), MetricColor, nil); err != nil {
		return nil, err
	}
	if ok && len(series.RollingStd) == len(xs) {
		if err := addSegments(p, xs, series.RollingStd, "St.Dev", StdColor, nil); err != nil {
			return nil, err
		}
	}

	mx, my := meanSeries(report.Means, m)
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	if err := addSegments(p, mx, my, "Mean", MeanColor, dashes); err != nil {
		return nil, err
	}

	if ok {
		if err := addChanges(p, xs, values, series.ChangeIndices()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// unixX converts a bucket label to the X coordinate expected by TimeTicks.
func unixX(t time.Time) float64 {
	return float64(t.Unix())
}

// meanSeries extracts one metric of the resampled mean overlay.
func meanSeries(rows []schema.MeanRow, m schema.Metric) (xs, ys []float64) {
	xs = make([]float64, len(rows))
	ys = make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = unixX(r.BucketEnd)
		switch m {
		case schema.StoryPointsMetric:
			ys[i] = r.StoryPoints
		case schema.CycleTimeMetric:
			ys[i] = r.CycleTime
		case schema.CountMetric:
			ys[i] = r.Count
		default:
			ys[i] = math.NaN()
		}
	}
	return xs, ys
}

// Segments splits a series into runs of consecutive finite points.
// Lines break where values are missing.
func Segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		if i >= len(ys) || !isFinite(xs[i]) || !isFinite(ys[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// addSegments draws each finite run as a line and adds one legend entry.
// A run of a single point is drawn as a glyph so it stays visible.
func addSegments(p *plot.Plot, xs, ys []float64, label string, c color.Color, dashes []vg.Length) error {
	legend := false
	for _, seg := range Segments(xs, ys) {
		line, points, err := plotter.NewLinePoints(seg)
		if err != nil {
			return err
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = dashes
		points.GlyphStyle.Color = c
		points.GlyphStyle.Radius = vg.Points(1.5)
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		if !legend {
			p.Legend.Add(label, line)
			legend = true
		}
	}
	return nil
}

// addChanges marks the flagged buckets with red glyphs at the metric value.
func addChanges(p *plot.Plot, xs, values []float64, idx []int) error {
	var pts plotter.XYs
	for _, i := range idx {
		if i >= len(xs) || i >= len(values) {
			continue
		}
		y := values[i]
		if !isFinite(y) {
			y = 0
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: y})
	}
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = ChangeColor
	sc.GlyphStyle.Radius = vg.Points(4)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	p.Legend.Add("St.Dev Change", sc)
	return nil
}
