package charts

import (
	"errors"
	"math"
	"testing"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hourlyTable builds days of hourly records for March 2013 with a daily
// PM2.5 cycle
func hourlyTable(days int) *types.Table {
	t := &types.Table{}
	for d := 1; d <= days; d++ {
		for h := 0; h < 24; h++ {
			r := types.NewRecord()
			r.Year, r.Month, r.Day, r.Hour = 2013, 3, d, h
			n := float64(len(t.Records))
			r.Values[types.FieldNo] = n + 1
			r.Values[types.FieldYear] = 2013
			r.Values[types.FieldMonth] = 3
			r.Values[types.FieldDay] = float64(d)
			r.Values[types.FieldHour] = float64(h)
			r.Values[types.FieldPM25] = 50 + 20*math.Sin(2*math.Pi*float64(h)/24) + n/10
			r.Values[types.FieldPM10] = 80 + float64(h)
			r.Values[types.FieldSO2] = 10 + float64(h%5)
			r.Values[types.FieldNO2] = 30 + float64(h%7)
			r.Values[types.FieldCO] = 700 + 10*float64(h%3)
			r.Values[types.FieldO3] = 40 - float64(h%4)
			r.Values[types.FieldTemp] = 5 + float64(h)/2
			r.Values[types.FieldPres] = 1020 - float64(h%6)
			r.Values[types.FieldDewp] = -10 + float64(h%8)
			r.Values[types.FieldRain] = float64(h%10) / 10
			r.Values[types.FieldWSPM] = 2
			r.WD = analysis.CompassPoints[h%len(analysis.CompassPoints)]
			r.Station = "Aotizhongxin"
			t.Records = append(t.Records, r)
		}
	}
	return t
}

func selection() types.Selection {
	return types.Selection{
		Year:      2013,
		Month:     3,
		Pollutant: types.FieldPM25,
		Columns:   []string{"PM2.5", "NO2", "TEMP", "PRES", "DEWP"},
	}
}

func sectionByID(t *testing.T, sections []Section, id string) Section {
	t.Helper()
	for _, s := range sections {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("section %q not rendered", id)
	return Section{}
}

func TestRenderProducesEverySectionInOrder(t *testing.T) {
	var failures []string
	r := NewRenderer(Options{}, nil, func(id string, err error) { failures = append(failures, id) })

	sections := r.Render(NewInput(hourlyTable(3), selection()))

	require.Len(t, sections, len(ChartIDs()))
	for i, s := range sections {
		assert.Equal(t, ChartIDs()[i], s.ID)
		assert.NotEmpty(t, s.Title)
		assert.Empty(t, s.Error, "section %s", s.ID)
	}
	assert.Empty(t, failures)

	for _, id := range []string{"daily-pm25", "correlation", "monthly-mean", "pollutant-distribution",
		"decomposition", "hourly-mean", "wind-rose", "rain-scatter", "histograms", "interactive-correlation"} {
		assert.Contains(t, string(sectionByID(t, sections, id).SVG), "<svg", id)
	}
}

func TestSummarySection(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)
	s, err := r.RenderChart("summary", NewInput(hourlyTable(2), selection()))
	require.NoError(t, err)

	require.NotNil(t, s.Table)
	assert.Equal(t, "PM2.5", s.Table.Header[1+int(types.FieldPM25)])
	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, firstColumn(s.Table))
	assert.Equal(t, "48", s.Table.Rows[0][1+int(types.FieldPM25)])

	require.Len(t, s.Badges, 3)
	assert.Equal(t, "48", s.Badges[0].Value)
	assert.Equal(t, "PM2.5 AQI", s.Badges[1].Label)
	assert.NotEmpty(t, s.Badges[1].Color)
}

func firstColumn(t *Table) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[0]
	}
	return out
}

func TestDecompositionErrorIsInline(t *testing.T) {
	var failed []string
	r := NewRenderer(Options{}, nil, func(id string, err error) { failed = append(failed, id) })

	// one day is shorter than two full periods
	sections := r.Render(NewInput(hourlyTable(1), selection()))

	dec := sectionByID(t, sections, "decomposition")
	assert.Contains(t, dec.Error, "unable to decompose time series")
	assert.Nil(t, dec.SVG)
	assert.Equal(t, []string{"decomposition"}, failed)

	after := sectionByID(t, sections, "hourly-mean")
	assert.Empty(t, after.Error)
	assert.NotEmpty(t, after.SVG)
}

func TestEmptySelectionRendersNoDataNotes(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)
	sel := selection()
	sel.Month = 4

	sections := r.Render(NewInput(hourlyTable(3), sel))

	for _, id := range []string{"summary", "daily-pm25", "correlation", "wind-rose", "rain-scatter", "histograms"} {
		s := sectionByID(t, sections, id)
		assert.Empty(t, s.Error, id)
		assert.Equal(t, noDataNote, s.Note, id)
	}

	// whole-table sections are unaffected by the month filter
	assert.Empty(t, sectionByID(t, sections, "monthly-mean").Note)
	assert.Empty(t, sectionByID(t, sections, "hourly-mean").Note)
}

func TestInteractiveCorrelationColumns(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)

	tests := []struct {
		name    string
		columns []string
		wantErr string
	}{
		{name: "defaults", columns: []string{"PM2.5", "NO2", "TEMP", "PRES", "DEWP"}},
		{name: "single column", columns: []string{"CO"}},
		{name: "unknown column", columns: []string{"PM2.5", "benzene"}, wantErr: `unknown column "benzene"`},
		{name: "non-numeric column", columns: []string{"wd"}, wantErr: `column "wd" is not numeric`},
		{name: "no columns", columns: nil, wantErr: "select at least one column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := selection()
			sel.Columns = tt.columns
			sections := r.Render(NewInput(hourlyTable(2), sel))

			s := sectionByID(t, sections, "interactive-correlation")
			if tt.wantErr == "" {
				assert.Empty(t, s.Error)
				require.NotNil(t, s.Table)
				assert.Len(t, s.Table.Rows, len(tt.columns))
				return
			}
			assert.Equal(t, tt.wantErr, s.Error)
			assert.Empty(t, sectionByID(t, sections, "correlation").Error)
		})
	}
}

func TestCorrelationTableIsSymmetricWithUnitDiagonal(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)
	s, err := r.RenderChart("correlation", NewInput(hourlyTable(2), selection()))
	require.NoError(t, err)
	require.NotNil(t, s.Table)

	n := len(FixedCorrelationFields)
	require.Len(t, s.Table.Rows, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, "1.00", s.Table.Rows[i][i+1])
		for j := 0; j < n; j++ {
			assert.Equal(t, s.Table.Rows[i][j+1], s.Table.Rows[j][i+1])
		}
	}
}

func TestWindRoseTableFollowsCompassOrder(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)
	s, err := r.RenderChart("wind-rose", NewInput(hourlyTable(1), selection()))
	require.NoError(t, err)
	require.NotNil(t, s.Table)

	require.Len(t, s.Table.Rows, len(analysis.CompassPoints))
	for i, row := range s.Table.Rows {
		assert.Equal(t, analysis.CompassPoints[i], row[0])
	}
}

func TestPollutantDistributionUsesWholeYear(t *testing.T) {
	table := hourlyTable(1)
	for i := 0; i < 24; i++ {
		r := table.Records[i]
		r.Month = 4
		table.Records = append(table.Records, r)
	}

	r := NewRenderer(Options{}, nil, nil)
	s, err := r.RenderChart("pollutant-distribution", NewInput(table, selection()))
	require.NoError(t, err)
	require.NotNil(t, s.Table)

	require.Len(t, s.Table.Rows, 2)
	assert.Equal(t, "Mar", s.Table.Rows[0][0])
	assert.Equal(t, "Apr", s.Table.Rows[1][0])
	assert.Equal(t, "24", s.Table.Rows[1][1])
}

func TestRenderChartUnknown(t *testing.T) {
	r := NewRenderer(Options{}, nil, nil)
	_, err := r.RenderChart("pie", NewInput(hourlyTable(1), selection()))
	assert.True(t, errors.Is(err, ErrUnknownChart))
}

func TestPanickingSectionIsIsolated(t *testing.T) {
	var failed []string
	r := NewRenderer(Options{}, nil, func(id string, err error) { failed = append(failed, id) })

	boom := chart{id: "boom", title: "Boom", build: func(*Renderer, *Input, *Section) error {
		panic("palette exhausted")
	}}

	s := r.run(boom, NewInput(hourlyTable(1), selection()))
	assert.Equal(t, "boom", s.ID)
	assert.Equal(t, "Error rendering Boom: palette exhausted", s.Error)
	assert.Equal(t, []string{"boom"}, failed)
}

func TestCoolwarmRunsBlueToRed(t *testing.T) {
	for _, bounds := range [][2]float64{{-1, 1}, {40, 95}} {
		colors := coolwarm(bounds[0], bounds[1]).Colors()
		require.Len(t, colors, 255)

		r, _, b, _ := colors[0].RGBA()
		assert.Greater(t, b, r, "low end of %v", bounds)
		r, _, b, _ = colors[len(colors)-1].RGBA()
		assert.Greater(t, r, b, "high end of %v", bounds)
	}
}
