package indices

import (
	"github.com/chrissnell/droughtindex/pkg/classify"
	"github.com/chrissnell/droughtindex/pkg/moisture"
	"github.com/chrissnell/droughtindex/pkg/spi"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// Coefficients weight the Composite Index terms:
// CI = A*SPI1 + B*SPI3 + C*MoistureIndex.
type Coefficients struct {
	A, B, C float64
}

// DefaultCoefficients are the published Composite Index weights.
var DefaultCoefficients = Coefficients{A: 0.47, B: 0.36, C: 0.96}

// CompositeIndex blends the 1- and 3-month SPI with the moisture balance.
// Only monthly computation is supported.
type CompositeIndex struct {
	table        Table
	series       *timeline.Series
	estimator    moisture.Estimator
	coefficients Coefficients
}

// NewCompositeIndex validates the table and returns a CI calculator. Without
// WithEstimator, PET is temperature-driven when the table has a temperature
// column and a fixed fraction of precipitation otherwise.
func NewCompositeIndex(t Table, opts ...Option) (*CompositeIndex, error) {
	s, err := t.Series()
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	if o.estimator == nil {
		o.estimator = moisture.Default(s)
	}

	return &CompositeIndex{
		table:        t,
		series:       s,
		estimator:    o.estimator,
		coefficients: o.coefficients,
	}, nil
}

func (c *CompositeIndex) Kind() Kind { return CI }

func (c *CompositeIndex) Validate() error {
	_, err := c.table.Series()
	return err
}

// Estimator returns the PET estimator in use.
func (c *CompositeIndex) Estimator() moisture.Estimator {
	return c.estimator
}

// SPI returns the monthly SPI at timescale k.
func (c *CompositeIndex) SPI(k int) []float64 {
	return spi.Compute(c.series.Precipitation(), k)
}

// MoistureIndex returns the monthly (P - PET) / P series.
func (c *CompositeIndex) MoistureIndex() []float64 {
	return moisture.Index(c.series.Precipitation(), c.estimator.Estimate(c.series))
}

// Compute returns the monthly Composite Index. A month is undefined when any
// of its three components is.
func (c *CompositeIndex) Compute(freq Frequency) (*ResultTable, error) {
	if freq != Monthly {
		return nil, &InvalidFrequencyError{Kind: CI, Frequency: freq, Supported: SupportedFrequencies(CI)}
	}

	precip := c.series.Precipitation()
	spi1 := c.SPI(1)
	spi3 := c.SPI(3)
	mi := c.MoistureIndex()
	keys := c.series.Keys()

	rt := &ResultTable{
		Kind:      CI,
		Frequency: Monthly,
		Results:   make([]IndexResult, len(keys)),
	}
	for i, key := range keys {
		value := c.coefficients.A*spi1[i] + c.coefficients.B*spi3[i] + c.coefficients.C*mi[i]
		rt.Results[i] = IndexResult{
			Period:        key,
			Precipitation: precip[i],
			Value:         value,
			Class:         classify.CompositeScale(value),
			Components: &Components{
				SPI1:          spi1[i],
				SPI3:          spi3[i],
				MoistureIndex: mi[i],
			},
		}
	}
	return rt, nil
}
