package restserver

import (
	"bytes"
	htmltemplate "html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chrissnell/airquality/internal/charts"
	"github.com/chrissnell/airquality/internal/constants"
	"github.com/chrissnell/airquality/internal/types"
)

var templateFuncs = htmltemplate.FuncMap{
	"monthName": monthName,
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return time.Month(m).String()
}

// pageSection is a rendered section with its figure ready for inlining
type pageSection struct {
	charts.Section
	Figure htmltemplate.HTML
}

// option is one entry of a <select> or checkbox group
type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Title      string
	Version    string
	Rows       int
	Files      int
	LoadedAt   time.Time
	Selection  types.Selection
	Years      []option
	Months     []option
	Pollutants []option
	Stations   []option
	Columns    []option
	Sections   []pageSection
	ExportCSV  string
	ExportXLSX string
}

func newPageData(c *Controller, t *types.Table, sel types.Selection, sections []charts.Section, req *http.Request) pageData {
	d := pageData{
		Title:     c.dashboard.Title,
		Version:   constants.Version,
		Rows:      t.Len(),
		Files:     len(t.Files),
		LoadedAt:  t.LoadedAt,
		Selection: sel,
	}

	for _, y := range t.Years() {
		d.Years = append(d.Years, option{Value: strconv.Itoa(y), Label: strconv.Itoa(y), Selected: y == sel.Year})
	}
	for _, m := range t.Months() {
		d.Months = append(d.Months, option{Value: strconv.Itoa(m), Label: monthName(m), Selected: m == sel.Month})
	}
	for _, p := range types.Pollutants {
		d.Pollutants = append(d.Pollutants, option{Value: p.String(), Label: p.String(), Selected: p == sel.Pollutant})
	}
	d.Stations = append(d.Stations, option{Value: "", Label: "All stations", Selected: sel.Station == ""})
	for _, s := range t.Stations() {
		d.Stations = append(d.Stations, option{Value: s, Label: s, Selected: s == sel.Station})
	}

	chosen := make(map[string]bool)
	for _, col := range sel.Columns {
		chosen[col] = true
	}
	for _, f := range types.Fields() {
		d.Columns = append(d.Columns, option{Value: f.String(), Label: f.String(), Selected: chosen[f.String()]})
	}

	for _, s := range sections {
		d.Sections = append(d.Sections, pageSection{Section: s, Figure: inlineSVG(s.SVG)})
	}

	d.ExportCSV = exportLink(req, "csv")
	d.ExportXLSX = exportLink(req, "xlsx")
	return d
}

// inlineSVG strips the XML prolog so the figure can be embedded in HTML
func inlineSVG(svg []byte) htmltemplate.HTML {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return htmltemplate.HTML(svg)
}

func exportLink(req *http.Request, format string) string {
	q := url.Values{}
	for _, k := range []string{"year", "month", "station"} {
		if v := req.URL.Query().Get(k); v != "" {
			q.Set(k, v)
		}
	}
	q.Set("format", format)
	return "/export?" + q.Encode()
}
