package analysis

import "math"

// ForwardFill returns a copy of x where every NaN is replaced by the nearest
// preceding non-NaN value. Leading NaNs have no predecessor and stay NaN.
func ForwardFill(x []float64) []float64 {
	out := make([]float64, len(x))
	last := math.NaN()
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = last
			continue
		}
		out[i] = v
		last = v
	}
	return out
}

// dropNaN returns the non-NaN values of x in their original order
func dropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
