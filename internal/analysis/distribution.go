package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BoxStats summarizes a distribution the way a box plot draws it. Whiskers
// reach the most extreme values within 1.5 IQR of the quartiles; anything
// beyond is an outlier.
type BoxStats struct {
	Count       int
	Q1          float64
	Median      float64
	Q3          float64
	LowWhisker  float64
	HighWhisker float64
	Outliers    []float64
}

// Box computes box plot statistics of x, ignoring NaN
func Box(x []float64) BoxStats {
	vals := dropNaN(x)
	if len(vals) == 0 {
		nan := math.NaN()
		return BoxStats{Q1: nan, Median: nan, Q3: nan, LowWhisker: nan, HighWhisker: nan}
	}
	sort.Float64s(vals)

	b := BoxStats{
		Count:  len(vals),
		Q1:     quantileSorted(0.25, vals),
		Median: quantileSorted(0.5, vals),
		Q3:     quantileSorted(0.75, vals),
	}
	iqr := b.Q3 - b.Q1
	lowFence := b.Q1 - 1.5*iqr
	highFence := b.Q3 + 1.5*iqr

	b.LowWhisker = math.Inf(1)
	b.HighWhisker = math.Inf(-1)
	for _, v := range vals {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowWhisker = math.Min(b.LowWhisker, v)
		b.HighWhisker = math.Max(b.HighWhisker, v)
	}
	return b
}

// Histogram counts the non-NaN values of x in equal-width bins spanning
// their range. Edges has one more element than Counts. A constant series gets
// a single unit-wide bin centred on its value.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// NewHistogram bins x into the given number of bins
func NewHistogram(x []float64, bins int) Histogram {
	vals := dropNaN(x)
	if len(vals) == 0 || bins < 1 {
		return Histogram{}
	}
	sort.Float64s(vals)

	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
		bins = 1
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := append([]float64(nil), edges...)
	// stat.Histogram bins are half-open; nudge the top divider so the
	// maximum lands in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return Histogram{
		Edges:  edges,
		Counts: stat.Histogram(nil, dividers, vals, nil),
	}
}
