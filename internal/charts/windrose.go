package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// windRose draws one wedge per compass direction with radius proportional to
// the direction's value. It implements plot.Plotter.
type windRose struct {
	values []float64
	fill   color.Color
	rings  int
}

func newWindRose(groups []analysis.Group) *windRose {
	values := make([]float64, len(analysis.CompassPoints))
	for i := range values {
		values[i] = math.NaN()
	}
	for _, g := range groups {
		if g.Order >= 0 && g.Order < len(values) {
			values[g.Order] = g.Mean
		}
	}
	return &windRose{
		values: values,
		fill:   colorPrimary,
		rings:  4,
	}
}

func (w *windRose) peak() float64 {
	m := 0.0
	for _, v := range w.values {
		if !math.IsNaN(v) && v > m {
			m = v
		}
	}
	return m
}

// compassAngle converts a clockwise-from-north sector index to a
// counter-clockwise-from-east angle
func compassAngle(i, n int) float64 {
	return math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
}

func (w *windRose) Plot(c draw.Canvas, plt *plot.Plot) {
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.8

	label := plt.X.Tick.Label
	label.XAlign = draw.XCenter
	label.YAlign = draw.YCenter

	peak := w.peak()

	c.SetColor(colorGrid)
	c.SetLineWidth(vg.Points(0.5))
	for ring := 1; ring <= w.rings; ring++ {
		rr := radius * vg.Length(ring) / vg.Length(w.rings)
		var circle vg.Path
		circle.Move(vg.Point{X: center.X + rr, Y: center.Y})
		circle.Arc(center, rr, 0, 2*math.Pi)
		circle.Close()
		c.Stroke(circle)
		if peak > 0 {
			c.FillText(label, vg.Point{X: center.X, Y: center.Y + rr},
				fmt.Sprintf("%.0f", peak*float64(ring)/float64(w.rings)))
		}
	}

	n := len(w.values)
	sweep := 2 * math.Pi / float64(n) * 0.85
	for i, v := range w.values {
		angle := compassAngle(i, n)

		if !math.IsNaN(v) && peak > 0 {
			rr := radius * vg.Length(v/peak)
			var wedge vg.Path
			wedge.Move(center)
			wedge.Arc(center, rr, angle-sweep/2, sweep)
			wedge.Close()
			c.SetColor(w.fill)
			c.Fill(wedge)
			c.SetColor(color.Black)
			c.SetLineWidth(vg.Points(0.5))
			c.Stroke(wedge)
		}

		at := vg.Point{
			X: center.X + (radius+vg.Points(10))*vg.Length(math.Cos(angle)),
			Y: center.Y + (radius+vg.Points(10))*vg.Length(math.Sin(angle)),
		}
		c.FillText(label, at, analysis.CompassPoints[i])
	}
}

func buildWindRose(r *Renderer, in *Input, s *Section) error {
	groups := analysis.GroupMean(in.Filtered, analysis.ByWindDirection, types.FieldPM25)

	known := groups[:0:0]
	var unknown []string
	for _, g := range groups {
		if g.Order < len(analysis.CompassPoints) {
			known = append(known, g)
		} else {
			unknown = append(unknown, g.Key)
		}
	}

	p := newPlot("Mean PM2.5 (µg/m³)", "", "")
	p.HideAxes()
	p.Add(newWindRose(known))

	switch {
	case len(known) == 0:
		s.Note = noDataNote
	case len(unknown) > 0:
		s.Note = fmt.Sprintf("Ignored unrecognised wind directions: %v", unknown)
	}

	side := r.opts.Height * 1.5
	svg, err := encodeSVG(p, side, side)
	if err != nil {
		return err
	}
	s.SVG = svg

	s.Table = &Table{Header: []string{"Direction", "Mean PM2.5", "Hours"}}
	for _, g := range known {
		s.Table.Rows = append(s.Table.Rows, []string{g.Key, formatStat(g.Mean), fmt.Sprint(g.Count)})
	}
	return nil
}
