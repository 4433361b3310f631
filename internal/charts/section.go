// Package charts renders the dashboard page: a fixed sequence of sections,
// each an independent function of the loaded table and the user's selection.
// Figures are drawn with gonum/plot and delivered as SVG.
package charts

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/types"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// ErrUnknownChart is returned by RenderChart for an unregistered chart ID
var ErrUnknownChart = errors.New("unknown chart")

// Section is one block of the dashboard page. Exactly one of SVG or Table is
// usually set; Error replaces both when the section could not be built.
type Section struct {
	ID     string
	Title  string
	Note   string
	Error  string
	SVG    []byte
	Table  *Table
	Badges []Badge
}

// Table is tabular content shown in place of, or beside, a figure
type Table struct {
	Header []string
	Rows   [][]string
}

// Badge is a highlighted value such as an air-quality index
type Badge struct {
	Label string
	Value string
	Color string
}

// Input is everything a section may read. Base is the whole table narrowed
// to the selected station; Filtered is Base narrowed to the selected year and
// month.
type Input struct {
	Table     *types.Table
	Base      types.View
	Filtered  types.View
	Selection types.Selection
}

// NewInput derives the base and filtered views for a selection
func NewInput(t *types.Table, sel types.Selection) *Input {
	base := analysis.FilterStation(t.All(), sel.Station)
	filtered := analysis.FilterStation(analysis.Filter(t, sel.Year, sel.Month), sel.Station)
	return &Input{
		Table:     t,
		Base:      base,
		Filtered:  filtered,
		Selection: sel,
	}
}

// Options controls figure size and the statistical parameters of the charts
type Options struct {
	Width               vg.Length
	Height              vg.Length
	DecompositionPeriod int
	HistogramBins       int
}

// chart is a registered section builder
type chart struct {
	id    string
	title string
	build func(r *Renderer, in *Input, s *Section) error
}

// page lists the sections in display order
var page = []chart{
	{"summary", "Overview of the Selected Period", buildSummary},
	{"daily-pm25", "Daily PM2.5 Levels", buildDailyPM25},
	{"correlation", "Correlation of Air Quality Indicators", buildFixedCorrelation},
	{"monthly-mean", "Seasonal Trend: Monthly Mean PM2.5", buildMonthlyMean},
	{"pollutant-distribution", "Pollutant Distribution by Month", buildPollutantDistribution},
	{"decomposition", "PM2.5 Time Series Decomposition", buildDecomposition},
	{"hourly-mean", "Mean PM2.5 by Hour of Day", buildHourlyMean},
	{"wind-rose", "PM2.5 by Wind Direction", buildWindRose},
	{"rain-scatter", "Rainfall vs. PM2.5", buildRainScatter},
	{"histograms", "Pollutant Histograms", buildHistograms},
	{"interactive-correlation", "Interactive Correlation Heatmap", buildInteractiveCorrelation},
}

// ChartIDs returns the section IDs in page order
func ChartIDs() []string {
	ids := make([]string, len(page))
	for i, c := range page {
		ids[i] = c.id
	}
	return ids
}

// FailureFunc is called whenever a section fails to build
type FailureFunc func(chartID string, err error)

// Renderer builds dashboard sections
type Renderer struct {
	opts      Options
	logger    *zap.SugaredLogger
	onFailure FailureFunc
}

// NewRenderer creates a renderer. Zero options fall back to sensible defaults.
func NewRenderer(opts Options, logger *zap.SugaredLogger, onFailure FailureFunc) *Renderer {
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 4 * vg.Inch
	}
	if opts.DecompositionPeriod == 0 {
		opts.DecompositionPeriod = 24
	}
	if opts.HistogramBins == 0 {
		opts.HistogramBins = 30
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Renderer{
		opts:      opts,
		logger:    logger,
		onFailure: onFailure,
	}
}

// Render builds every section in page order. A failing section carries an
// error message and does not affect the others.
func (r *Renderer) Render(in *Input) []Section {
	sections := make([]Section, len(page))
	for i, c := range page {
		sections[i] = r.run(c, in)
	}
	return sections
}

// RenderChart builds a single section by ID
func (r *Renderer) RenderChart(id string, in *Input) (Section, error) {
	for _, c := range page {
		if c.id == id {
			return r.run(c, in), nil
		}
	}
	return Section{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
}

func (r *Renderer) run(c chart, in *Input) (s Section) {
	s = Section{ID: c.id, Title: c.title}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("chart panicked", "chart", c.id, "panic", p, "stack", string(debug.Stack()))
			s = Section{ID: c.id, Title: c.title, Error: fmt.Sprintf("Error rendering %s: %v", c.title, p)}
			r.fail(c.id, fmt.Errorf("panic: %v", p))
		}
	}()

	if err := c.build(r, in, &s); err != nil {
		r.logger.Warnw("chart failed", "chart", c.id, "error", err)
		s.SVG = nil
		s.Table = nil
		s.Error = err.Error()
		r.fail(c.id, err)
	}
	return s
}

func (r *Renderer) fail(id string, err error) {
	if r.onFailure != nil {
		r.onFailure(id, err)
	}
}
