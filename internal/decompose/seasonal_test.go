package decompose

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdditiveTooShort(t *testing.T) {
	x := make([]float64, 10)

	res, err := Additive(x, 24)
	assert.Nil(t, res)
	require.Error(t, err)

	var de *DecompositionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 10, de.Observations)
	assert.Equal(t, 48, de.Required)
	assert.Contains(t, err.Error(), "two complete cycles")
}

func TestAdditiveRejectsMissingValues(t *testing.T) {
	x := make([]float64, 48)
	x[0] = math.NaN()

	_, err := Additive(x, 24)
	var de *DecompositionError
	assert.True(t, errors.As(err, &de))
}

func TestAdditiveRejectsBadPeriod(t *testing.T) {
	_, err := Additive(make([]float64, 10), 1)
	assert.Error(t, err)
}

func TestAdditiveRecoversComponents(t *testing.T) {
	const period = 4
	pattern := []float64{3, -1, -3, 1}
	n := 6 * period
	x := make([]float64, n)
	for i := range x {
		x[i] = 10 + 0.5*float64(i) + pattern[i%period]
	}

	res, err := Additive(x, period)
	require.NoError(t, err)
	require.Len(t, res.Trend, n)

	half := period / 2
	for i := 0; i < n; i++ {
		if i < half || i >= n-half {
			assert.True(t, math.IsNaN(res.Trend[i]), "trend edge %d", i)
			assert.True(t, math.IsNaN(res.Residual[i]), "residual edge %d", i)
			continue
		}
		assert.InDelta(t, 10+0.5*float64(i), res.Trend[i], 1e-9, "trend %d", i)
		assert.InDelta(t, 0, res.Residual[i], 1e-9, "residual %d", i)
	}
	for i := 0; i < n; i++ {
		assert.InDelta(t, pattern[i%period], res.Seasonal[i], 1e-9, "seasonal %d", i)
	}
}

func TestAdditiveOddPeriod(t *testing.T) {
	const period = 3
	pattern := []float64{2, 0, -2}
	x := make([]float64, 4*period)
	for i := range x {
		x[i] = 5 + pattern[i%period]
	}

	res, err := Additive(x, period)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(res.Trend[0]))
	assert.InDelta(t, 5, res.Trend[1], 1e-9)
	assert.InDelta(t, 2, res.Seasonal[3], 1e-9)
}

func TestAdditiveSeasonalSumsToZero(t *testing.T) {
	x := make([]float64, 72)
	for i := range x {
		x[i] = math.Sin(float64(i)) * float64(i%7)
	}

	res, err := Additive(x, 24)
	require.NoError(t, err)

	var sum float64
	for _, v := range res.Seasonal[:24] {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}
