package analysis

import (
	"math"
	"sort"

	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds describe-style statistics of one column. Std is the sample
// standard deviation. Statistics that cannot be computed are NaN.
type Summary struct {
	Field types.Field
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarizes every numeric column of the view
func Describe(v types.View) []Summary {
	fields := types.Fields()
	out := make([]Summary, len(fields))
	for i, f := range fields {
		out[i] = Summarize(f, v.Column(f))
	}
	return out
}

// Summarize computes the statistics of x, ignoring NaN
func Summarize(f types.Field, x []float64) Summary {
	vals := dropNaN(x)
	s := Summary{
		Field: f,
		Count: len(vals),
		Mean:  math.NaN(),
		Std:   math.NaN(),
		Min:   math.NaN(),
		Q25:   math.NaN(),
		Q50:   math.NaN(),
		Q75:   math.NaN(),
		Max:   math.NaN(),
	}
	if len(vals) == 0 {
		return s
	}

	sort.Float64s(vals)
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Q25 = quantileSorted(0.25, vals)
	s.Q50 = quantileSorted(0.5, vals)
	s.Q75 = quantileSorted(0.75, vals)
	return s
}

// quantileSorted interpolates linearly between the two order statistics
// surrounding position q*(n-1). sorted must be ascending and free of NaN.
func quantileSorted(q float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
