package restserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chrissnell/airquality/internal/types"
)

// SelectionError is a request parameter that does not match the loaded data.
// Handlers answer it with 400 Bad Request.
type SelectionError struct {
	Param string
	Value string
	Msg   string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Msg)
}

// parseSelection reads year, month, pollutant, columns and station from the
// query string. Missing parameters take the first available year and month,
// PM2.5 and the configured default columns.
func parseSelection(req *http.Request, t *types.Table, defaultColumns []string) (types.Selection, error) {
	q := req.URL.Query()
	sel := types.Selection{Pollutant: types.FieldPM25}

	years := t.Years()
	months := t.Months()
	if len(years) > 0 {
		sel.Year = years[0]
	}
	if len(months) > 0 {
		sel.Month = months[0]
	}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, &SelectionError{Param: "year", Value: v, Msg: "not a number"}
		}
		if !t.HasYear(year) {
			return sel, &SelectionError{Param: "year", Value: v, Msg: "no data for this year"}
		}
		sel.Year = year
	}

	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return sel, &SelectionError{Param: "month", Value: v, Msg: "not a number"}
		}
		if !t.HasMonth(month) {
			return sel, &SelectionError{Param: "month", Value: v, Msg: "no data for this month"}
		}
		sel.Month = month
	}

	if v := q.Get("pollutant"); v != "" {
		f, ok := types.ParseField(v)
		if !ok || !types.IsPollutant(f) {
			return sel, &SelectionError{Param: "pollutant", Value: v, Msg: "not a selectable pollutant"}
		}
		sel.Pollutant = f
	}

	if v := q.Get("station"); v != "" {
		found := false
		for _, s := range t.Stations() {
			if s == v {
				found = true
				break
			}
		}
		if !found {
			return sel, &SelectionError{Param: "station", Value: v, Msg: "unknown station"}
		}
		sel.Station = v
	}

	// Column names are validated by the correlation section itself so that a
	// bad name only affects that section.
	for _, v := range q["columns"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sel.Columns = append(sel.Columns, name)
			}
		}
	}
	if _, given := q["columns"]; !given {
		sel.Columns = append([]string(nil), defaultColumns...)
	}

	return sel, nil
}
