// Package chart renders the per-project timeseries and histogram images.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/natefinch/atomic"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure sizes of the two charts.
const (
	TimeseriesWidth  = 12 * vg.Inch
	TimeseriesHeight = 8 * vg.Inch
	HistogramWidth   = 8 * vg.Inch
	HistogramHeight  = 8 * vg.Inch
)

// Series colors.
var (
	MetricColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	StdColor    = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	MeanColor   = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	ChangeColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	BarColor    = color.RGBA{R: 31, G: 119, B: 180, A: 200}
)

// Renderer draws charts with gonum/plot and writes them atomically.
type Renderer struct {
	Format     schema.ImageFormat
	BucketDays int
}

var _ contract.ChartRenderer = &Renderer{} // Compile-time check

// NewRenderer creates a renderer for the configured image format and bucket width.
func NewRenderer(cfg *contract.Config) *Renderer {
	return &Renderer{Format: cfg.ImageFormat, BucketDays: cfg.BucketDays}
}

// RenderTimeseries implements the ChartRenderer interface.
func (r *Renderer) RenderTimeseries(report schema.ProjectReport, path string) error {
	panels := make([]*plot.Plot, 0, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		p, err := timeseriesPanel(report, m, periodLabel(r.BucketDays))
		if err != nil {
			return fmt.Errorf("%s panel: %w", m, err)
		}
		panels = append(panels, p)
	}
	return r.save(panels, TimeseriesWidth, TimeseriesHeight, path)
}

// RenderHistogram implements the ChartRenderer interface.
func (r *Renderer) RenderHistogram(report schema.ProjectReport, path string) error {
	panels, err := histogramPanels(report)
	if err != nil {
		return err
	}
	return r.save(panels, HistogramWidth, HistogramHeight, path)
}

// save stacks the panels vertically, encodes the image and writes it to path.
func (r *Renderer) save(panels []*plot.Plot, width, height vg.Length, path string) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Points(24),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
	}
	grid := make([][]*plot.Plot, len(panels))
	for i, p := range panels {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	var buf bytes.Buffer
	if err := encode(img, r.Format, &buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}
	return nil
}

// encode writes the canvas in the requested image format.
func encode(img *vgimg.Canvas, format schema.ImageFormat, w io.Writer) error {
	var err error
	switch format {
	case schema.JPEGImage:
		_, err = vgimg.JpegCanvas{Canvas: img}.WriteTo(w)
	case schema.PNGImage, "":
		_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// periodLabel names the bucket cadence for panel titles.
func periodLabel(days int) string {
	switch days {
	case 7:
		return "Weekly"
	case 14:
		return "Bi-weekly"
	default:
		return fmt.Sprintf("%d-day", days)
	}
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
