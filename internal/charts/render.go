package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

var (
	colorPrimary = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorAccent  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorMissing = color.RGBA{R: 224, G: 224, B: 224, A: 255}
	colorGrid    = color.Gray{Y: 200}
)

// newPlot returns a plot with the dashboard's common styling
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// encodeSVG serialises a single plot
func encodeSVG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("could not create SVG writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not encode SVG: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeGridSVG lays plots out in rows and columns on one SVG canvas with
// aligned axes
func encodeGridSVG(plots [][]*plot.Plot, w, h vg.Length) ([]byte, error) {
	if len(plots) == 0 || len(plots[0]) == 0 {
		return nil, fmt.Errorf("no panels to draw")
	}

	img := vgsvg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			if plots[j][i] != nil {
				plots[j][i].Draw(canvases[j][i])
			}
		}
	}

	var buf bytes.Buffer
	if _, err := img.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not encode SVG: %w", err)
	}
	return buf.Bytes(), nil
}

// points builds XYs from paired slices, skipping pairs with a missing value
func points(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	return xys
}

// indexed pairs each value with its position
func indexed(y []float64) plotter.XYs {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return points(x, y)
}

// nominalTicks labels integer positions along an axis
func nominalTicks(labels []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// matrixGrid adapts a row-major matrix to plotter.GridXYZ. Row 0 is drawn at
// the top.
type matrixGrid struct {
	z [][]float64
}

func (g matrixGrid) Dims() (c, r int) {
	if len(g.z) == 0 {
		return 0, 0
	}
	return len(g.z[0]), len(g.z)
}

func (g matrixGrid) Z(c, r int) float64 {
	return g.z[len(g.z)-1-r][c]
}

func (g matrixGrid) X(c int) float64 {
	return float64(c)
}

func (g matrixGrid) Y(r int) float64 {
	return float64(r)
}

// cellLabels annotates every finite cell of a matrix grid with its value
func cellLabels(g matrixGrid, format string) (*plotter.Labels, error) {
	cols, rows := g.Dims()
	var xys plotter.XYs
	var labels []string
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := g.Z(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			labels = append(labels, fmt.Sprintf(format, v))
		}
	}
	if len(labels) == 0 {
		return nil, nil
	}

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
		l.TextStyle[i].Font.Size = vg.Points(8)
	}
	return l, nil
}

// reversed returns labels in reverse order, matching matrixGrid's Y axis
func reversed(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[len(labels)-1-i] = l
	}
	return out
}
