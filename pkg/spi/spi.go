// Package spi computes the Standardized Precipitation Index at an arbitrary
// timescale by fitting a gamma distribution over a trailing window of rolling
// precipitation sums.
package spi

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// FitWindow caps the number of trailing rolling sums the distribution is
	// fitted to. Older observations fall out so the fit follows recent
	// climatology.
	FitWindow = 360

	// MaxScore bounds the magnitude of every index value. Probabilities of
	// exactly 0 or 1 map to -MaxScore and +MaxScore.
	MaxScore = 3.09
)

var (
	minProb = distuv.UnitNormal.CDF(-MaxScore)
	maxProb = distuv.UnitNormal.CDF(MaxScore)
)

// RollingSum returns the trailing k-month sums. Position i is NaN when i < k-1
// or when any of the k contributing months is NaN.
func RollingSum(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if k < 1 {
		return out
	}

	for i := k - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - k + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				sum = math.NaN()
				break
			}
			sum += values[j]
		}
		out[i] = sum
	}
	return out
}

// Compute returns the SPI of every month at timescale k. Position i is fitted
// against the defined rolling sums at positions max(0, i-FitWindow+1)..i; it is
// NaN when its own rolling sum is undefined or fewer than two sums are
// available.
func Compute(values []float64, k int) []float64 {
	sums := RollingSum(values, k)
	out := make([]float64, len(sums))

	for i, current := range sums {
		out[i] = math.NaN()
		if math.IsNaN(current) {
			continue
		}

		start := i - FitWindow + 1
		if start < 0 {
			start = 0
		}
		fit, ok := FitGamma(sums[start : i+1])
		if !ok {
			continue
		}
		out[i] = Score(fit, current)
	}
	return out
}

// Score maps an observation to a standard normal deviate under the fit. A
// sample of identical values scores 0.
func Score(fit GammaFit, x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if fit.Degenerate && (fit.ZeroProb == 0 || fit.ZeroProb == 1) {
		return 0
	}
	return probabilityToScore(fit.CDF(x))
}

func probabilityToScore(p float64) float64 {
	switch {
	case p <= minProb:
		return -MaxScore
	case p >= maxProb:
		return MaxScore
	}
	z := distuv.UnitNormal.Quantile(p)
	return math.Max(-MaxScore, math.Min(MaxScore, z))
}
