// Package indices computes the China Z-Index (CZI), the Modified China
// Z-Index (MCZI) and the Composite Index (CI) from a monthly precipitation
// table, aggregated monthly, seasonally or annually, with a drought
// classification for every period.
package indices

import (
	"fmt"
	"strings"

	"github.com/chrissnell/droughtindex/pkg/moisture"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// Kind names a drought index family.
type Kind string

const (
	CZI  Kind = "CZI"
	MCZI Kind = "MCZI"
	CI   Kind = "CI"
)

// Kinds lists every index family.
var Kinds = []Kind{CZI, MCZI, CI}

// ParseKind parses an index name case-insensitively.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(name)))
	switch k {
	case CZI, MCZI, CI:
		return k, nil
	}
	return "", fmt.Errorf("unknown index %q", name)
}

// Frequency is the temporal aggregation an index is computed at.
type Frequency string

const (
	Monthly  Frequency = "monthly"
	Seasonal Frequency = "seasonal"
	Annual   Frequency = "annual"
)

var zFrequencies = []Frequency{Monthly, Seasonal, Annual}

// ParseFrequency parses a frequency name case-insensitively. An empty name is
// monthly.
func ParseFrequency(name string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case "":
		return Monthly, nil
	case Monthly, Seasonal, Annual:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", name)
}

// SupportedFrequencies returns the frequencies an index family accepts.
func SupportedFrequencies(k Kind) []Frequency {
	if k == CI {
		return []Frequency{Monthly}
	}
	return zFrequencies
}

// Calculator is the capability set shared by the index families.
// Constructors validate their input, so Validate on a constructed calculator
// only fails if the table was modified afterwards.
type Calculator interface {
	Kind() Kind
	Validate() error
	Compute(freq Frequency) (*ResultTable, error)
}

type options struct {
	estimator    moisture.Estimator
	coefficients Coefficients
}

// Option configures a calculator. Options that do not apply to an index
// family are ignored.
type Option func(*options)

// WithEstimator sets the PET estimator of the Composite Index.
func WithEstimator(e moisture.Estimator) Option {
	return func(o *options) {
		o.estimator = e
	}
}

// WithCoefficients overrides the Composite Index weights.
func WithCoefficients(c Coefficients) Option {
	return func(o *options) {
		o.coefficients = c
	}
}

func buildOptions(opts []Option) options {
	o := options{coefficients: DefaultCoefficients}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New constructs the calculator of an index family.
func New(kind Kind, t Table, opts ...Option) (Calculator, error) {
	switch kind {
	case CZI:
		return NewChinaZIndex(t)
	case MCZI:
		return NewModifiedChinaZIndex(t)
	case CI:
		return NewCompositeIndex(t, opts...)
	default:
		return nil, fmt.Errorf("unknown index %q", kind)
	}
}

// periodTotals returns the period keys and precipitation totals of a series at
// a frequency. ok is false for an unknown frequency.
func periodTotals(s *timeline.Series, freq Frequency) (keys []timeline.PeriodKey, totals []float64, ok bool) {
	switch freq {
	case Monthly:
		return s.Keys(), s.Precipitation(), true
	case Seasonal, Annual:
		var buckets []timeline.Bucket
		if freq == Seasonal {
			buckets = s.Seasonal()
		} else {
			buckets = s.Annual()
		}
		keys = make([]timeline.PeriodKey, len(buckets))
		for i, b := range buckets {
			keys[i] = b.Key
		}
		return keys, timeline.Totals(buckets), true
	default:
		return nil, nil, false
	}
}
