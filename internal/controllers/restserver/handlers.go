package restserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/chrissnell/airquality/internal/analysis"
	"github.com/chrissnell/airquality/internal/charts"
	"github.com/chrissnell/airquality/internal/decompose"
	"github.com/chrissnell/airquality/internal/exporter"
	"github.com/chrissnell/airquality/internal/types"
	"github.com/chrissnell/airquality/pkg/aqi"
	"github.com/chrissnell/airquality/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
	export     func(w io.Writer, v types.View, format exporter.Format) error
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
		export:     exporter.Write,
	}
}

// currentTable returns the loaded table, answering 503 when none is loaded
func (h *Handlers) currentTable(w http.ResponseWriter, req *http.Request) (*types.Table, bool) {
	t := h.controller.source.Table()
	if t == nil {
		h.formatter.WriteError(w, req, http.StatusServiceUnavailable, "no data loaded")
		return nil, false
	}
	return t, true
}

// apiSelection parses the selection of an API request, answering 400 on error
func (h *Handlers) apiSelection(w http.ResponseWriter, req *http.Request, t *types.Table) (types.Selection, bool) {
	sel, err := parseSelection(req, t, h.controller.dashboard.DefaultColumns)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return sel, false
	}
	return sel, true
}

// numericColumn reads an optional column parameter naming a numeric field
func numericColumn(req *http.Request, def types.Field) (types.Field, error) {
	v := req.URL.Query().Get("column")
	if v == "" {
		return def, nil
	}
	f, ok := types.ParseField(v)
	if !ok {
		return def, fmt.Errorf("unknown column %q", v)
	}
	return f, nil
}

// ServeDashboard renders the dashboard page for the selection in the query string
func (h *Handlers) ServeDashboard(w http.ResponseWriter, req *http.Request) {
	t := h.controller.source.Table()
	if t == nil {
		http.Error(w, "no data loaded", http.StatusServiceUnavailable)
		return
	}

	sel, err := parseSelection(req, t, h.controller.dashboard.DefaultColumns)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sections := h.controller.renderer.Render(charts.NewInput(t, sel))
	data := newPageData(h.controller, t, sel, sections, req)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.controller.page.Execute(w, data); err != nil {
		h.controller.logger.Errorw("error executing dashboard template", "error", err)
	}
}

// GetOptions returns the values available to each dashboard control
func (h *Handlers) GetOptions(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}

	resp := OptionsResponse{
		Title:          h.controller.dashboard.Title,
		Years:          t.Years(),
		Months:         t.Months(),
		Stations:       t.Stations(),
		DefaultColumns: h.controller.dashboard.DefaultColumns,
		Charts:         charts.ChartIDs(),
	}
	for _, p := range types.Pollutants {
		resp.Pollutants = append(resp.Pollutants, p.String())
	}
	for _, f := range types.Fields() {
		resp.Columns = append(resp.Columns, f.String())
	}

	h.formatter.WriteResponse(w, req, http.StatusOK, resp)
}

// GetSummary returns describe statistics and AQI of the filtered view
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}
	sel, ok := h.apiSelection(w, req, t)
	if !ok {
		return
	}

	view := charts.NewInput(t, sel).Filtered
	resp := SummaryResponse{
		Year:    sel.Year,
		Month:   sel.Month,
		Station: sel.Station,
		Rows:    view.Len(),
	}

	for _, s := range analysis.Describe(view) {
		resp.Statistics = append(resp.Statistics, ColumnSummary{
			Column: s.Field.String(),
			Count:  s.Count,
			Mean:   responseformat.Number(s.Mean),
			Std:    responseformat.Number(s.Std),
			Min:    responseformat.Number(s.Min),
			Q25:    responseformat.Number(s.Q25),
			Q50:    responseformat.Number(s.Q50),
			Q75:    responseformat.Number(s.Q75),
			Max:    responseformat.Number(s.Max),
		})

		var index int
		switch s.Field {
		case types.FieldPM25:
			index = aqi.CalculatePM25(s.Mean)
		case types.FieldPM10:
			index = aqi.CalculatePM10(s.Mean)
		default:
			continue
		}
		cat := aqi.GetCategory(index)
		resp.AQI = append(resp.AQI, AQIReading{
			Pollutant:     s.Field.String(),
			Concentration: responseformat.Number(s.Mean),
			Index:         index,
			Category:      cat.Name,
			Color:         cat.Color,
		})
	}

	h.formatter.WriteResponse(w, req, http.StatusOK, resp)
}

// GetAggregates returns per-group means of a column grouped by month, hour or
// wind direction. The filtered view is used unless scope=all; fill=ffill
// forward-fills the column first.
func (h *Handlers) GetAggregates(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}

	key, ok := analysis.ParseGroupKey(mux.Vars(req)["key"])
	if !ok {
		h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("unknown group key %q", mux.Vars(req)["key"]))
		return
	}
	column, err := numericColumn(req, types.FieldPM25)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	sel, ok := h.apiSelection(w, req, t)
	if !ok {
		return
	}

	q := req.URL.Query()
	in := charts.NewInput(t, sel)
	resp := AggregateResponse{Key: string(key), Column: column.String(), Scope: "filtered"}

	view := in.Filtered
	switch q.Get("scope") {
	case "", "filtered":
	case "all":
		view = in.Base
		resp.Scope = "all"
	default:
		h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("unknown scope %q", q.Get("scope")))
		return
	}

	var groups []analysis.Group
	if q.Get("fill") == "ffill" {
		resp.Filled = true
		groups = analysis.GroupMeanFilled(view, key, column)
	} else {
		groups = analysis.GroupMean(view, key, column)
	}

	resp.Groups = make([]AggregateGroup, len(groups))
	for i, g := range groups {
		resp.Groups[i] = AggregateGroup{Key: g.Key, Mean: responseformat.Number(g.Mean), Count: g.Count}
	}

	h.formatter.WriteResponse(w, req, http.StatusOK, resp)
}

// GetDecomposition returns the additive seasonal decomposition of the
// forward-filled column over the filtered view
func (h *Handlers) GetDecomposition(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}
	column, err := numericColumn(req, types.FieldPM25)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	sel, ok := h.apiSelection(w, req, t)
	if !ok {
		return
	}

	period := h.controller.dashboard.DecompositionPeriod
	if v := req.URL.Query().Get("period"); v != "" {
		period, err = strconv.Atoi(v)
		if err != nil || period < 2 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid period %q", v))
			return
		}
	}

	series := analysis.ForwardFill(charts.NewInput(t, sel).Filtered.Column(column))
	res, err := decompose.Additive(series, period)
	if err != nil {
		var de *decompose.DecompositionError
		if errors.As(err, &de) {
			h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.formatter.WriteError(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	h.formatter.WriteResponse(w, req, http.StatusOK, DecompositionResponse{
		Column:   column.String(),
		Period:   res.Period,
		Observed: responseformat.Numbers(res.Observed),
		Trend:    responseformat.Numbers(res.Trend),
		Seasonal: responseformat.Numbers(res.Seasonal),
		Residual: responseformat.Numbers(res.Residual),
	})
}

// ServeChart returns one dashboard figure as SVG
func (h *Handlers) ServeChart(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}
	sel, ok := h.apiSelection(w, req, t)
	if !ok {
		return
	}

	name := mux.Vars(req)["name"]
	section, err := h.controller.renderer.RenderChart(name, charts.NewInput(t, sel))
	if errors.Is(err, charts.ErrUnknownChart) {
		h.formatter.WriteError(w, req, http.StatusNotFound, err.Error())
		return
	}
	if section.Error != "" {
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, section.Error)
		return
	}
	if len(section.SVG) == 0 {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("chart %q has no figure", name))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(section.SVG)
}

// Export downloads the filtered view as CSV or XLSX
func (h *Handlers) Export(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}
	format, err := exporter.ParseFormat(req.URL.Query().Get("format"))
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}
	sel, ok := h.apiSelection(w, req, t)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.export(&buf, charts.NewInput(t, sel).Filtered, format); err != nil {
		h.controller.logger.Errorw("export failed", "format", format, "error", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, fmt.Sprintf("unable to export %s", format))
		return
	}

	filename := fmt.Sprintf("airquality-%d-%02d.%s", sel.Year, sel.Month, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// Healthz reports whether a table is loaded
func (h *Handlers) Healthz(w http.ResponseWriter, req *http.Request) {
	t, ok := h.currentTable(w, req)
	if !ok {
		return
	}
	h.formatter.WriteResponse(w, req, http.StatusOK, HealthResponse{
		Status:   "ok",
		Rows:     t.Len(),
		Files:    len(t.Files),
		LoadedAt: t.LoadedAt,
	})
}
