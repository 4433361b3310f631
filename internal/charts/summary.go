package charts

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/chrissnell/airquality/pkg/aqi"
)

const noDataNote = "No data for the selected period."

var summaryRows = []struct {
	label string
	value func(analysis.Summary) string
}{
	{"count", func(s analysis.Summary) string { return strconv.Itoa(s.Count) }},
	{"mean", func(s analysis.Summary) string { return formatStat(s.Mean) }},
	{"std", func(s analysis.Summary) string { return formatStat(s.Std) }},
	{"min", func(s analysis.Summary) string { return formatStat(s.Min) }},
	{"25%", func(s analysis.Summary) string { return formatStat(s.Q25) }},
	{"50%", func(s analysis.Summary) string { return formatStat(s.Q50) }},
	{"75%", func(s analysis.Summary) string { return formatStat(s.Q75) }},
	{"max", func(s analysis.Summary) string { return formatStat(s.Max) }},
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func buildSummary(r *Renderer, in *Input, s *Section) error {
	stats := analysis.Describe(in.Filtered)

	table := &Table{Header: []string{""}}
	for _, st := range stats {
		table.Header = append(table.Header, st.Field.String())
	}
	for _, row := range summaryRows {
		cells := []string{row.label}
		for _, st := range stats {
			cells = append(cells, row.value(st))
		}
		table.Rows = append(table.Rows, cells)
	}
	s.Table = table

	s.Badges = append(s.Badges, Badge{Label: "Observations", Value: strconv.Itoa(in.Filtered.Len())})
	for _, st := range stats {
		var index int
		switch st.Field {
		case types.FieldPM25:
			index = aqi.CalculatePM25(st.Mean)
		case types.FieldPM10:
			index = aqi.CalculatePM10(st.Mean)
		default:
			continue
		}
		cat := aqi.GetCategory(index)
		value := cat.Name
		if index >= 0 {
			value = fmt.Sprintf("%d (%s)", index, cat.Name)
		}
		s.Badges = append(s.Badges, Badge{
			Label: st.Field.String() + " AQI",
			Value: value,
			Color: cat.Color,
		})
	}

	if in.Filtered.Len() == 0 {
		s.Note = noDataNote
	}
	return nil
}
