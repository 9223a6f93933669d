package spi

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// constantTolerance is the value of ln(mean) - mean(ln x) below which a sample
// is treated as constant. The MLE shape diverges as this statistic goes to 0.
const constantTolerance = 1e-12

// GammaFit is a two-parameter gamma distribution (location 0) fitted by
// maximum likelihood, mixed with a point mass at zero.
type GammaFit struct {
	Shape    float64
	Scale    float64
	ZeroProb float64 // share of zero observations in the sample
	N        int     // observations, zeros included

	// Degenerate fits have fewer than two distinct positive values. The
	// positive part is then a point mass at PointMass.
	Degenerate bool
	PointMass  float64
}

// FitGamma fits the sample. Negative and NaN observations are ignored. ok is
// false when fewer than two observations remain.
func FitGamma(sample []float64) (fit GammaFit, ok bool) {
	var (
		n, zeros    int
		sum, logSum float64
		minPos      = math.Inf(1)
		maxPos      = math.Inf(-1)
	)
	for _, x := range sample {
		if math.IsNaN(x) || x < 0 {
			continue
		}
		n++
		if x == 0 {
			zeros++
			continue
		}
		sum += x
		logSum += math.Log(x)
		minPos = math.Min(minPos, x)
		maxPos = math.Max(maxPos, x)
	}
	if n < 2 {
		return GammaFit{}, false
	}

	fit.N = n
	fit.ZeroProb = float64(zeros) / float64(n)
	positive := n - zeros
	if positive == 0 {
		fit.Degenerate = true
		return fit, true
	}

	mean := sum / float64(positive)
	s := math.Log(mean) - logSum/float64(positive)
	if positive < 2 || minPos == maxPos || s <= constantTolerance {
		fit.Degenerate = true
		fit.PointMass = mean
		return fit, true
	}

	fit.Shape = solveShape(s)
	fit.Scale = mean / fit.Shape
	return fit, true
}

// solveShape finds alpha with ln(alpha) - digamma(alpha) = s. The left side is
// strictly decreasing in alpha, so the root is bracketed and bisected,
// starting from Thom's approximation.
func solveShape(s float64) float64 {
	f := func(a float64) float64 {
		return math.Log(a) - mathext.Digamma(a) - s
	}

	guess := (1 + math.Sqrt(1+4*s/3)) / (4 * s)
	lo, hi := guess/2, guess*2
	for i := 0; f(lo) < 0 && i < 200; i++ {
		lo /= 2
	}
	for i := 0; f(hi) > 0 && i < 200; i++ {
		hi *= 2
	}

	for i := 0; i < 200 && hi-lo > 1e-14*hi; i++ {
		mid := lo + (hi-lo)/2
		if f(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}

// CDF returns the probability of an observation at or below x.
func (g GammaFit) CDF(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x <= 0 {
		return g.ZeroProb
	}
	if g.Degenerate {
		if x < g.PointMass {
			return g.ZeroProb
		}
		return 1
	}

	dist := distuv.Gamma{Alpha: g.Shape, Beta: 1 / g.Scale}
	return g.ZeroProb + (1-g.ZeroProb)*dist.CDF(x)
}
