package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pa-m/gtv/gtv"
)

// PlotSolution renders a solved chain's coordinate index against its
// value, so a fused-lasso style piecewise-constant segmentation or a
// smoothed trajectory can be inspected visually. It writes the image to
// path, in the format named by the path's extension (e.g. .png).
func PlotSolution(output *gtv.OutputData, title, path string) error {
	if output.N == 0 {
		panic("report: PlotSolution requires a non-empty output")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "index"
	p.Y.Label.Text = "x"

	pts := make(plotter.XYs, output.N)
	for i, x := range output.X {
		pts[i].X = float64(i)
		pts[i].Y = x
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("report: plot solution: %w", err)
	}
	p.Add(line, points)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// PlotComparison overlays two solved chains (e.g. gtv.Solve's output
// against a fast-path or baseline optimizer's output) on the same axes.
func PlotComparison(a, b *gtv.OutputData, aLabel, bLabel, title, path string) error {
	if a.N != b.N || a.N == 0 {
		panic("report: PlotComparison requires equal, non-zero length outputs")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "index"
	p.Y.Label.Text = "x"

	toXYs := func(o *gtv.OutputData) plotter.XYs {
		pts := make(plotter.XYs, o.N)
		for i, x := range o.X {
			pts[i].X = float64(i)
			pts[i].Y = x
		}
		return pts
	}

	lineA, err := plotter.NewLine(toXYs(a))
	if err != nil {
		return fmt.Errorf("report: plot comparison: %w", err)
	}
	lineB, err := plotter.NewLine(toXYs(b))
	if err != nil {
		return fmt.Errorf("report: plot comparison: %w", err)
	}
	lineB.Color = plotter.DefaultLineStyle.Color
	lineB.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(lineA, lineB)
	p.Legend.Add(aLabel, lineA)
	p.Legend.Add(bLabel, lineB)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
