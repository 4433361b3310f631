package analysis

import (
	"math"

	"github.com/chrissnell/airquality/internal/types"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j] is the
// correlation of Fields[i] with Fields[j].
type CorrelationMatrix struct {
	Fields []types.Field
	Values [][]float64
}

// Correlation computes the Pearson correlation of every pair of fields using
// the rows where both values are present. A coefficient is NaN when fewer than
// two such rows exist or either column is constant over them.
func Correlation(v types.View, fields []types.Field) CorrelationMatrix {
	cols := make([][]float64, len(fields))
	for i, f := range fields {
		cols[i] = v.Column(f)
	}

	m := CorrelationMatrix{
		Fields: append([]types.Field(nil), fields...),
		Values: make([][]float64, len(fields)),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(fields))
	}

	for i := range fields {
		for j := i; j < len(fields); j++ {
			r := pairwiseCorrelation(cols[i], cols[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwiseCorrelation(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
