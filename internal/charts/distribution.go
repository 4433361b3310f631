package charts

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramFields are the columns of the histogram grid, in reading order
var HistogramFields = []types.Field{
	types.FieldPM25, types.FieldPM10, types.FieldSO2,
	types.FieldNO2, types.FieldCO, types.FieldO3,
}

const histogramCols = 3

func monthLabel(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return time.Month(m).String()[:3]
}

func finite(x []float64) plotter.Values {
	out := make(plotter.Values, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func buildMonthlyMean(r *Renderer, in *Input, s *Section) error {
	groups := analysis.GroupMean(in.Base, analysis.ByMonth, types.FieldPM25)

	p := newPlot("", "Month", "Mean PM2.5 (µg/m³)")
	p.Add(plotter.NewGrid())

	if len(groups) == 0 {
		s.Note = noDataNote
	} else {
		values := make(plotter.Values, len(groups))
		labels := make([]string, len(groups))
		for i, g := range groups {
			values[i] = g.Mean
			labels[i] = monthLabel(g.Order)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return fmt.Errorf("could not build bar chart: %w", err)
		}
		bars.Color = colorPrimary
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(labels...)
		p.Y.Min = 0
	}

	svg, err := encodeSVG(p, r.opts.Width, r.opts.Height)
	if err != nil {
		return err
	}
	s.SVG = svg
	return nil
}

func buildPollutantDistribution(r *Renderer, in *Input, s *Section) error {
	sel := in.Selection
	year := analysis.FilterStation(analysis.FilterYear(in.Table, sel.Year), sel.Station)

	byMonth := make(map[int][]float64)
	for _, rec := range year.Rows {
		byMonth[rec.Month] = append(byMonth[rec.Month], rec.Value(sel.Pollutant))
	}

	p := newPlot(fmt.Sprintf("%s in %d", sel.Pollutant, sel.Year), "Month", sel.Pollutant.String())
	p.Add(plotter.NewGrid())

	table := &Table{Header: []string{"Month", "Count", "Q1", "Median", "Q3", "Outliers"}}
	var labels []string
	for m := 1; m <= 12; m++ {
		values := finite(byMonth[m])
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(labels)), values)
		if err != nil {
			return fmt.Errorf("could not build box for month %d: %w", m, err)
		}
		box.FillColor = colorAccent
		p.Add(box)
		labels = append(labels, monthLabel(m))

		st := analysis.Box(values)
		table.Rows = append(table.Rows, []string{
			monthLabel(m),
			strconv.Itoa(st.Count),
			formatStat(st.Q1),
			formatStat(st.Median),
			formatStat(st.Q3),
			strconv.Itoa(len(st.Outliers)),
		})
	}

	if len(labels) == 0 {
		s.Note = noDataNote
	} else {
		p.NominalX(labels...)
	}

	svg, err := encodeSVG(p, r.opts.Width, r.opts.Height)
	if err != nil {
		return err
	}
	s.SVG = svg
	s.Table = table
	return nil
}

func buildHistograms(r *Renderer, in *Input, s *Section) error {
	rows := (len(HistogramFields) + histogramCols - 1) / histogramCols
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, histogramCols)
	}

	empty := true
	for i, f := range HistogramFields {
		p := newPlot(f.String(), "", "Count")
		p.Add(plotter.NewGrid())

		h := analysis.NewHistogram(in.Filtered.Column(f), r.opts.HistogramBins)
		if len(h.Counts) > 0 {
			empty = false
			bins := make([]plotter.HistogramBin, len(h.Counts))
			for j, c := range h.Counts {
				bins[j] = plotter.HistogramBin{Min: h.Edges[j], Max: h.Edges[j+1], Weight: c}
			}
			hist := &plotter.Histogram{
				Bins:      bins,
				Width:     h.Edges[1] - h.Edges[0],
				FillColor: colorPrimary,
				LineStyle: plotter.DefaultLineStyle,
			}
			p.Add(hist)
		}
		plots[i/histogramCols][i%histogramCols] = p
	}
	if empty {
		s.Note = noDataNote
	}

	svg, err := encodeGridSVG(plots, r.opts.Width, r.opts.Height*1.5)
	if err != nil {
		return err
	}
	s.SVG = svg
	return nil
}
