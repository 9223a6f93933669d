// Package zindex implements the Wilson-Hilferty cube-root standardization used
// by the China Z-Index and its median-based variant.
//
// The median variant computes skewness around the median rather than the
// mean. This departs from the textbook Z-index formula and is kept as is.
package zindex

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Location selects the central-tendency estimator.
type Location int

const (
	Mean Location = iota
	Median
)

func (l Location) String() string {
	if l == Median {
		return "median"
	}
	return "mean"
}

// Params are the sample statistics a transform is built from.
type Params struct {
	N          int
	Location   float64
	Dispersion float64
	Skewness   float64
}

// Fit estimates the transform parameters from the defined (non-NaN) values.
// ok is false when fewer than two values are defined.
func Fit(values []float64, loc Location) (p Params, ok bool) {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) < 2 {
		return Params{}, false
	}

	p.N = len(defined)
	if loc == Median {
		p.Location = median(defined)
	} else {
		p.Location = stat.Mean(defined, nil)
	}
	p.Dispersion = stat.StdDev(defined, nil)
	if p.Dispersion == 0 {
		return p, true
	}

	cubes := 0.0
	for _, v := range defined {
		d := v - p.Location
		cubes += d * d * d
	}
	p.Skewness = (cubes / float64(p.N)) / math.Pow(p.Dispersion, 3)
	return p, true
}

// Score transforms one value. NaN stays NaN; a zero-dispersion fit scores 0.
func (p Params) Score(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if p.Dispersion == 0 {
		return 0
	}

	z := (x - p.Location) / p.Dispersion
	if p.Skewness == 0 {
		return z
	}

	cs := p.Skewness
	// Cbrt keeps the sign of a negative radicand.
	return (6/cs)*math.Cbrt((cs/2)*z+1) - (6/cs + cs/6)
}

// Transform returns the standardized, skewness-corrected score of every value.
// All outputs are NaN when fewer than two values are defined.
func Transform(values []float64, loc Location) []float64 {
	out := make([]float64, len(values))
	p, ok := Fit(values, loc)
	for i, v := range values {
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = p.Score(v)
	}
	return out
}

// median averages the two middle values of an even-length sample.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
