// Package plotview renders diagnostic plots for a pipeline run: a fit
// overview (data, fitted curve, breakpoint grid) and a residual view with
// ±2σ guides.
package plotview

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/karsk/splinefit/core"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions in points.
const (
	plotWidth  = 800
	plotHeight = 400
)

var (
	dataColor     = color.RGBA{B: 255, A: 255}
	fitColor      = color.RGBA{R: 220, A: 255}
	guideColor    = color.RGBA{R: 255, G: 140, A: 255}
	gridLineColor = color.Gray{Y: 200}
	zeroLineColor = color.Gray{Y: 128}
)

// WriteOverviewPlot renders the data, the fitted curve and the breakpoint
// partition to a PNG file at path.
func WriteOverviewPlot(res *core.Result, path string) error {
	data, err := RenderOverview(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteResidualPlot renders the residual diagnostics to a PNG file at path.
func WriteResidualPlot(res *core.Result, path string) error {
	data, err := RenderResiduals(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderOverview renders the fit overview as PNG bytes.
func RenderOverview(res *core.Result) ([]byte, error) {
	if res.Dataset.Len() == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = "Spline Fit Overview"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	// Breakpoint markers behind the data.
	yMin, yMax := valueRange(res.Dataset.Ys())
	for _, bp := range res.Breakpoints {
		marker, err := plotter.NewLine(plotter.XYs{{X: bp, Y: yMin}, {X: bp, Y: yMax}})
		if err != nil {
			return nil, err
		}
		marker.Color = gridLineColor
		marker.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		p.Add(marker)
	}

	pts := make(plotter.XYs, res.Dataset.Len())
	for i, s := range res.Dataset {
		pts[i] = plotter.XY{X: s.X, Y: s.Y}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create data scatter: %w", err)
	}
	scatter.Color = dataColor
	scatter.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Add("samples", scatter)

	fitPts := make(plotter.XYs, res.Dataset.Len())
	for i, s := range res.Dataset {
		fitPts[i] = plotter.XY{X: s.X, Y: res.Fit.Fitted[i]}
	}
	fitLine, err := plotter.NewLine(fitPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create fit line: %w", err)
	}
	fitLine.Color = fitColor
	fitLine.LineStyle.Width = vg.Points(1.5)
	p.Add(fitLine)
	p.Legend.Add(fmt.Sprintf("fit (%s)", res.Fit.Strategy), fitLine)

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p)
}

// RenderResiduals renders the residual diagnostics as PNG bytes.
func RenderResiduals(res *core.Result) ([]byte, error) {
	if res.Dataset.Len() == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = "Fit Residuals"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y - fitted"
	p.Add(plotter.NewGrid())

	xs := res.Dataset.Xs()
	lo, hi := xs[0], xs[len(xs)-1]

	zero, err := plotter.NewLine(plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}})
	if err != nil {
		return nil, err
	}
	zero.Color = zeroLineColor
	zero.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)

	// ±2σ guides around the residual mean.
	if res.KPIs.ResidStd > 0 {
		for _, sign := range []float64{1, -1} {
			y := res.KPIs.ResidMean + sign*2*res.KPIs.ResidStd
			guide, err := plotter.NewLine(plotter.XYs{{X: lo, Y: y}, {X: hi, Y: y}})
			if err != nil {
				return nil, err
			}
			guide.Color = guideColor
			guide.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
			p.Add(guide)
			if sign > 0 {
				p.Legend.Add("±2σ", guide)
			}
		}
	}

	pts := make(plotter.XYs, len(res.KPIs.Residuals))
	for i, r := range res.KPIs.Residuals {
		pts[i] = plotter.XY{X: xs[i], Y: r}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create residual scatter: %w", err)
	}
	scatter.Color = dataColor
	scatter.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Add("residuals", scatter)

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return renderPNG(p)
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(plotWidth), vg.Points(plotHeight), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}
	return buf.Bytes(), nil
}

func valueRange(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
