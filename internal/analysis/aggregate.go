package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/chrissnell/airquality/internal/types"
)

// GroupKey selects the column rows are grouped by
type GroupKey string

const (
	ByMonth         GroupKey = "month"
	ByHour          GroupKey = "hour"
	ByWindDirection GroupKey = "wd"
)

// ParseGroupKey validates a group key name
func ParseGroupKey(s string) (GroupKey, bool) {
	switch k := GroupKey(s); k {
	case ByMonth, ByHour, ByWindDirection:
		return k, true
	}
	return "", false
}

// CompassPoints lists the sixteen wind directions clockwise from north
var CompassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassIndex returns the clockwise position of a wind direction, or -1 if
// the direction is not one of the sixteen compass points
func CompassIndex(wd string) int {
	for i, p := range CompassPoints {
		if p == wd {
			return i
		}
	}
	return -1
}

// Group is the mean of one field over the rows sharing a key
type Group struct {
	Key   string
	Order int
	Mean  float64
	Count int
}

// GroupMean computes the arithmetic mean of field for each group. Missing
// values are ignored; groups with no values at all are left out. Groups are
// ordered by numeric key for month and hour and clockwise from north for wind
// direction.
func GroupMean(v types.View, by GroupKey, field types.Field) []Group {
	return groupMean(v, by, v.Column(field))
}

// GroupMeanFilled forward-fills field across the view's row order before
// grouping
func GroupMeanFilled(v types.View, by GroupKey, field types.Field) []Group {
	return groupMean(v, by, ForwardFill(v.Column(field)))
}

type accumulator struct {
	order int
	sum   float64
	count int
}

func groupMean(v types.View, by GroupKey, values []float64) []Group {
	acc := make(map[string]*accumulator)

	for i, r := range v.Rows {
		key, order, ok := groupOf(r, by)
		if !ok {
			continue
		}
		a, exists := acc[key]
		if !exists {
			a = &accumulator{order: order}
			acc[key] = a
		}
		if math.IsNaN(values[i]) {
			continue
		}
		a.sum += values[i]
		a.count++
	}

	groups := make([]Group, 0, len(acc))
	for key, a := range acc {
		if a.count == 0 {
			continue
		}
		groups = append(groups, Group{
			Key:   key,
			Order: a.order,
			Mean:  a.sum / float64(a.count),
			Count: a.count,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Order != groups[j].Order {
			return groups[i].Order < groups[j].Order
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

func groupOf(r *types.Record, by GroupKey) (string, int, bool) {
	switch by {
	case ByMonth:
		return strconv.Itoa(r.Month), r.Month, true
	case ByHour:
		return strconv.Itoa(r.Hour), r.Hour, true
	case ByWindDirection:
		if r.WD == "" {
			return "", 0, false
		}
		idx := CompassIndex(r.WD)
		if idx < 0 {
			idx = len(CompassPoints)
		}
		return r.WD, idx, true
	}
	return "", 0, false
}
