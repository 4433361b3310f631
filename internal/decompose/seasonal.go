// Package decompose splits an hourly series into trend, seasonal and residual
// components using classical additive decomposition.
package decompose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result holds the three additive components. Observed = Trend + Seasonal +
// Residual wherever Trend is defined; Trend and Residual are NaN for the
// first and last half-window of the series.
type Result struct {
	Period   int
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
}

// DecompositionError reports why a series could not be decomposed
type DecompositionError struct {
	Reason       string
	Observations int
	Required     int
}

func (e *DecompositionError) Error() string {
	if e.Required > 0 {
		return fmt.Sprintf("%s: requires %d observations, series has %d", e.Reason, e.Required, e.Observations)
	}
	return e.Reason
}

// Additive decomposes x with the given period. x must contain at least two
// full periods and no missing values; forward-fill gaps before calling.
func Additive(x []float64, period int) (*Result, error) {
	if period < 2 {
		return nil, &DecompositionError{Reason: fmt.Sprintf("period must be at least 2, got %d", period)}
	}
	n := len(x)
	if n < 2*period {
		return nil, &DecompositionError{
			Reason:       "series must contain two complete cycles",
			Observations: n,
			Required:     2 * period,
		}
	}
	if floats.HasNaN(x) {
		return nil, &DecompositionError{Reason: "series contains missing values that could not be filled"}
	}

	trend := centeredMovingAverage(x, weights(period))

	detrended := make([]float64, n)
	floats.SubTo(detrended, x, trend)

	phaseMeans := make([]float64, period)
	for p := 0; p < period; p++ {
		var sum float64
		var count int
		for i := p; i < n; i += period {
			if math.IsNaN(detrended[i]) {
				continue
			}
			sum += detrended[i]
			count++
		}
		phaseMeans[p] = sum / float64(count)
	}
	floats.AddConst(-stat.Mean(phaseMeans, nil), phaseMeans)

	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = phaseMeans[i%period]
	}

	residual := make([]float64, n)
	floats.SubTo(residual, detrended, seasonal)

	return &Result{
		Period:   period,
		Observed: append([]float64(nil), x...),
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, nil
}

// weights returns the symmetric moving-average filter for period. Even
// periods use a 2xperiod filter with half weights at both ends so that the
// window stays centred.
func weights(period int) []float64 {
	if period%2 == 1 {
		w := make([]float64, period)
		for i := range w {
			w[i] = 1 / float64(period)
		}
		return w
	}
	w := make([]float64, period+1)
	for i := range w {
		w[i] = 1 / float64(period)
	}
	w[0] /= 2
	w[period] /= 2
	return w
}

func centeredMovingAverage(x, w []float64) []float64 {
	n := len(x)
	half := len(w) / 2
	out := make([]float64, n)
	for i := range out {
		if i < half || i >= n-half {
			out[i] = math.NaN()
			continue
		}
		out[i] = floats.Dot(w, x[i-half:i+half+1])
	}
	return out
}
