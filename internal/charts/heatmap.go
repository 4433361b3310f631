package charts

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// FixedCorrelationFields are the columns of the page's static correlation
// heatmap
var FixedCorrelationFields = []types.Field{
	types.FieldPM25, types.FieldNO2, types.FieldSO2, types.FieldCO,
	types.FieldO3, types.FieldTemp, types.FieldPres, types.FieldDewp,
}

func buildFixedCorrelation(r *Renderer, in *Input, s *Section) error {
	if in.Filtered.Len() == 0 {
		s.Note = noDataNote
	}
	return r.correlationHeatmap(analysis.Correlation(in.Filtered, FixedCorrelationFields), s)
}

func buildInteractiveCorrelation(r *Renderer, in *Input, s *Section) error {
	if len(in.Selection.Columns) == 0 {
		return fmt.Errorf("select at least one column")
	}

	fields := make([]types.Field, 0, len(in.Selection.Columns))
	for _, name := range in.Selection.Columns {
		f, ok := types.ParseField(name)
		if !ok {
			if name == types.ColumnWindDirection || name == types.ColumnStation {
				return fmt.Errorf("column %q is not numeric", name)
			}
			return fmt.Errorf("unknown column %q", name)
		}
		fields = append(fields, f)
	}

	if in.Base.Len() == 0 {
		s.Note = noDataNote
	}
	return r.correlationHeatmap(analysis.Correlation(in.Base, fields), s)
}

func (r *Renderer) correlationHeatmap(m analysis.CorrelationMatrix, s *Section) error {
	labels := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		labels[i] = f.String()
	}

	grid := matrixGrid{z: m.Values}
	hm := plotter.NewHeatMap(grid, coolwarm(-1, 1))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = colorMissing

	p := newPlot("", "", "")
	p.Add(hm)
	annotations, err := cellLabels(grid, "%.2f")
	if err != nil {
		return fmt.Errorf("could not annotate heatmap: %w", err)
	}
	if annotations != nil {
		p.Add(annotations)
	}
	p.X.Tick.Marker = nominalTicks(labels)
	p.Y.Tick.Marker = nominalTicks(reversed(labels))
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight

	side := r.opts.Height * 1.5
	svg, err := encodeSVG(p, side, side)
	if err != nil {
		return err
	}
	s.SVG = svg
	s.Table = matrixTable(labels, m.Values)
	return nil
}

// coolwarm is the diverging blue-white-red palette shared by the heatmaps
func coolwarm(lo, hi float64) palette.Palette {
	cm := moreland.SmoothBlueRed()
	cm.SetMax(hi)
	cm.SetMin(lo)
	return cm.Palette(255)
}

func matrixTable(labels []string, values [][]float64) *Table {
	t := &Table{Header: append([]string{""}, labels...)}
	for i, row := range values {
		cells := []string{labels[i]}
		for _, v := range row {
			cells = append(cells, formatStat(v))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func buildHourlyMean(r *Renderer, in *Input, s *Section) error {
	groups := analysis.GroupMeanFilled(in.Base, analysis.ByHour, types.FieldPM25)

	row := make([]float64, 24)
	for i := range row {
		row[i] = math.NaN()
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		h, err := strconv.Atoi(g.Key)
		if err != nil || h < 0 || h >= len(row) {
			return fmt.Errorf("hour %q is outside 0-23", g.Key)
		}
		row[h] = g.Mean
		lo = math.Min(lo, g.Mean)
		hi = math.Max(hi, g.Mean)
	}

	hours := make([]string, len(row))
	for i := range hours {
		hours[i] = strconv.Itoa(i)
	}

	if len(groups) == 0 {
		s.Note = noDataNote
		lo, hi = 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}

	grid := matrixGrid{z: [][]float64{row}}
	hm := plotter.NewHeatMap(grid, coolwarm(lo, hi))
	hm.NaN = colorMissing
	hm.Min = lo
	hm.Max = hi

	p := newPlot("", "Hour of day", "")
	p.Add(hm)
	annotations, err := cellLabels(grid, "%.0f")
	if err != nil {
		return fmt.Errorf("could not annotate heatmap: %w", err)
	}
	if annotations != nil {
		p.Add(annotations)
	}
	p.X.Tick.Marker = nominalTicks(hours)
	p.Y.Tick.Marker = plot.ConstantTicks{{Value: 0, Label: "PM2.5"}}

	svg, err := encodeSVG(p, r.opts.Width, r.opts.Height/2)
	if err != nil {
		return err
	}
	s.SVG = svg
	return nil
}
