package indices

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/droughtindex/pkg/classify"
)

// Summary describes the distribution of a result table.
type Summary struct {
	Kind      Kind
	Frequency Frequency
	Periods   int
	Defined   int

	// NaN when no value is defined; StdDev needs two values.
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64

	ClassCounts    map[string]int
	DroughtPeriods int
	SevereDrought  []IndexResult
}

// Summarize computes summary statistics and drought counts of a table.
func Summarize(rt *ResultTable) Summary {
	s := Summary{
		Kind:        rt.Kind,
		Frequency:   rt.Frequency,
		Periods:     len(rt.Results),
		Mean:        math.NaN(),
		Min:         math.NaN(),
		Max:         math.NaN(),
		StdDev:      math.NaN(),
		ClassCounts: make(map[string]int),
	}

	var defined []float64
	for _, r := range rt.Results {
		s.ClassCounts[r.Class]++
		if classify.IsDrought(r.Class) {
			s.DroughtPeriods++
		}
		if classify.IsSevere(r.Class) {
			s.SevereDrought = append(s.SevereDrought, r)
		}
		if !math.IsNaN(r.Value) {
			defined = append(defined, r.Value)
		}
	}

	s.Defined = len(defined)
	if s.Defined == 0 {
		return s
	}
	s.Mean = stat.Mean(defined, nil)
	s.Min = floats.Min(defined)
	s.Max = floats.Max(defined)
	if s.Defined > 1 {
		s.StdDev = stat.StdDev(defined, nil)
	}
	return s
}

// Percent returns the share of periods, in percent, classified as category.
func (s Summary) Percent(category string) float64 {
	if s.Periods == 0 {
		return 0
	}
	return 100 * float64(s.ClassCounts[category]) / float64(s.Periods)
}

// Categories returns the categories of the table's scale from wettest to
// driest, followed by NoData.
func (s Summary) Categories() []string {
	var cats []string
	if s.Kind == CI {
		cats = append(cats, classify.CompositeCategories...)
	} else {
		cats = append(cats, classify.ZCategories...)
	}
	return append(cats, classify.NoData)
}
