package indices

import (
	"fmt"

	"github.com/chrissnell/droughtindex/pkg/classify"
	"github.com/chrissnell/droughtindex/pkg/timeline"
	"github.com/chrissnell/droughtindex/pkg/zindex"
)

// ChinaZIndex computes the China Z-Index: a mean-centred Wilson-Hilferty
// transform of precipitation totals.
type ChinaZIndex struct {
	table  Table
	series *timeline.Series
}

// NewChinaZIndex validates the table and returns a CZI calculator.
func NewChinaZIndex(t Table) (*ChinaZIndex, error) {
	s, err := t.Series()
	if err != nil {
		return nil, err
	}
	return &ChinaZIndex{table: t, series: s}, nil
}

func (c *ChinaZIndex) Kind() Kind { return CZI }

func (c *ChinaZIndex) Validate() error {
	_, err := c.table.Series()
	return err
}

// Compute returns the CZI at a monthly, seasonal or annual frequency.
func (c *ChinaZIndex) Compute(freq Frequency) (*ResultTable, error) {
	return computeZ(CZI, zindex.Mean, c.series, freq)
}

// ModifiedChinaZIndex computes the MCZI, which centres the transform on the
// median. Its skewness is also taken around the median.
type ModifiedChinaZIndex struct {
	table  Table
	series *timeline.Series
}

// NewModifiedChinaZIndex validates the table and returns an MCZI calculator.
func NewModifiedChinaZIndex(t Table) (*ModifiedChinaZIndex, error) {
	s, err := t.Series()
	if err != nil {
		return nil, err
	}
	return &ModifiedChinaZIndex{table: t, series: s}, nil
}

func (m *ModifiedChinaZIndex) Kind() Kind { return MCZI }

func (m *ModifiedChinaZIndex) Validate() error {
	_, err := m.table.Series()
	return err
}

// Compute returns the MCZI at a monthly, seasonal or annual frequency.
func (m *ModifiedChinaZIndex) Compute(freq Frequency) (*ResultTable, error) {
	return computeZ(MCZI, zindex.Median, m.series, freq)
}

// Compare computes the monthly MCZI and joins it with a monthly CZI table.
func (m *ModifiedChinaZIndex) Compare(czi *ResultTable) (*Comparison, error) {
	if czi == nil || czi.Kind != CZI {
		return nil, fmt.Errorf("comparison needs a CZI result table")
	}
	monthly, err := m.Compute(Monthly)
	if err != nil {
		return nil, err
	}
	return CompareTables(monthly, czi)
}

// computeZ applies the transform to the period totals, so seasonal and annual
// values are fitted against aggregated totals rather than months.
func computeZ(kind Kind, loc zindex.Location, s *timeline.Series, freq Frequency) (*ResultTable, error) {
	keys, totals, ok := periodTotals(s, freq)
	if !ok {
		return nil, &InvalidFrequencyError{Kind: kind, Frequency: freq, Supported: SupportedFrequencies(kind)}
	}

	scores := zindex.Transform(totals, loc)
	rt := &ResultTable{
		Kind:      kind,
		Frequency: freq,
		Results:   make([]IndexResult, len(keys)),
	}
	for i, key := range keys {
		rt.Results[i] = IndexResult{
			Period:        key,
			Precipitation: totals[i],
			Value:         scores[i],
			Class:         classify.ZScale(scores[i]),
		}
	}
	return rt, nil
}
