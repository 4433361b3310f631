package analysis

import (
	"github.com/chrissnell/airquality/internal/types"
)

// Filter returns the rows whose year and month both equal the selection. An
// empty view is returned when nothing matches.
func Filter(t *types.Table, year, month int) types.View {
	return where(t, func(r *types.Record) bool {
		return r.Year == year && r.Month == month
	})
}

// FilterYear returns every row recorded in year
func FilterYear(t *types.Table, year int) types.View {
	return where(t, func(r *types.Record) bool {
		return r.Year == year
	})
}

// FilterStation narrows a view to one station. An empty station keeps every row.
func FilterStation(v types.View, station string) types.View {
	if station == "" {
		return v
	}
	out := types.View{}
	for _, r := range v.Rows {
		if r.Station == station {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func where(t *types.Table, keep func(*types.Record) bool) types.View {
	v := types.View{}
	if t == nil {
		return v
	}
	for i := range t.Records {
		if keep(&t.Records[i]) {
			v.Rows = append(v.Rows, &t.Records[i])
		}
	}
	return v
}
