package metrics

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/jvlmdr/fourdcg/cg"
)

// Size of the residual plot in pixels.
const (
	plotWidth  = 640
	plotHeight = 400
	plotDPI    = 96
)

// ResidualPlot draws the residual norm against the iteration number.
func ResidualPlot(report *cg.Report) (*plot.Plot, error) {
	if report == nil || len(report.Residuals) == 0 {
		return nil, fmt.Errorf("no residuals to plot")
	}
	p := plot.New()
	p.Title.Text = "Conjugate gradient residual"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "residual norm"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(report.Residuals))
	for k, r := range report.Residuals {
		pts[k].X = float64(k)
		pts[k].Y = r
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(2)
	p.Add(line, points)
	return p, nil
}

// SaveResidualPlot writes the residual history of a solve to a PNG file.
func SaveResidualPlot(path string, report *cg.Report) error {
	p, err := ResidualPlot(report)
	if err != nil {
		return err
	}
	width := vg.Length(plotWidth) * vg.Inch / plotDPI
	height := vg.Length(plotHeight) * vg.Inch / plotDPI
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(plotDPI))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
