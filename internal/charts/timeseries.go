package charts

import (
	"fmt"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/decompose"
	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func buildDailyPM25(r *Renderer, in *Input, s *Section) error {
	v := in.Filtered

	x := make([]float64, v.Len())
	for i, rec := range v.Rows {
		x[i] = float64(rec.Day) + float64(rec.Hour)/24
	}
	xys := points(x, v.Column(types.FieldPM25))

	p := newPlot("", "Day of month", "PM2.5 (µg/m³)")
	p.Add(plotter.NewGrid())
	if len(xys) > 0 {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("could not build PM2.5 line: %w", err)
		}
		line.Color = colorPrimary
		line.Width = vg.Points(1)
		p.Add(line)
	} else {
		s.Note = noDataNote
	}

	svg, err := encodeSVG(p, r.opts.Width, r.opts.Height)
	if err != nil {
		return err
	}
	s.SVG = svg
	return nil
}

func buildDecomposition(r *Renderer, in *Input, s *Section) error {
	series := analysis.ForwardFill(in.Filtered.Column(types.FieldPM25))

	res, err := decompose.Additive(series, r.opts.DecompositionPeriod)
	if err != nil {
		return fmt.Errorf("unable to decompose time series: %v", err)
	}

	panels := []struct {
		name   string
		values []float64
	}{
		{"Trend", res.Trend},
		{"Seasonal", res.Seasonal},
		{"Residual", res.Residual},
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p := newPlot(panel.name, "", panel.name)
		if i == len(panels)-1 {
			p.X.Label.Text = "Observation"
		}
		p.Add(plotter.NewGrid())

		xys := indexed(panel.values)
		if len(xys) > 0 {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("could not build %s panel: %w", panel.name, err)
			}
			line.Color = colorPrimary
			p.Add(line)
		}
		plots[i] = []*plot.Plot{p}
	}

	svg, err := encodeGridSVG(plots, r.opts.Width, r.opts.Height*2)
	if err != nil {
		return err
	}
	s.SVG = svg
	s.Note = fmt.Sprintf("Additive decomposition with period %d over %d observations.", res.Period, len(res.Observed))
	return nil
}

func buildRainScatter(r *Renderer, in *Input, s *Section) error {
	v := in.Filtered
	xys := points(v.Column(types.FieldRain), v.Column(types.FieldPM25))

	p := newPlot("", "Rainfall (mm)", "PM2.5 (µg/m³)")
	p.Add(plotter.NewGrid())
	if len(xys) > 0 {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("could not build scatter: %w", err)
		}
		sc.GlyphStyle.Color = colorPrimary
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	} else {
		s.Note = noDataNote
	}

	svg, err := encodeSVG(p, r.opts.Width, r.opts.Height)
	if err != nil {
		return err
	}
	s.SVG = svg
	return nil
}
