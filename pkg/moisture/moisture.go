// Package moisture computes the normalized moisture balance (P - PET) / P and
// provides potential evapotranspiration (PET) estimators.
package moisture

import (
	"math"
)

// Index returns (P - PET) / P for every month. Months with P <= 0 are exactly
// 0; months where either input is missing are NaN.
func Index(precipitation, pet []float64) []float64 {
	out := make([]float64, len(precipitation))
	for i, p := range precipitation {
		var e float64
		if i < len(pet) {
			e = pet[i]
		} else {
			e = math.NaN()
		}

		switch {
		case math.IsNaN(p):
			out[i] = math.NaN()
		case p <= 0:
			out[i] = 0
		case math.IsNaN(e):
			out[i] = math.NaN()
		default:
			out[i] = (p - e) / p
		}
	}
	return out
}
