package indices

import (
	"math"
	"strconv"

	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// IndexResult is one period of an index computation.
type IndexResult struct {
	Period        timeline.PeriodKey
	Precipitation float64
	Value         float64 // NaN when undefined
	Class         string

	// Components is set for Composite Index rows only.
	Components *Components
}

// Components are the Composite Index inputs of one month.
type Components struct {
	SPI1          float64
	SPI3          float64
	MoistureIndex float64
}

// ResultTable holds one index computed at one frequency, in chronological
// order with one row per period.
type ResultTable struct {
	Kind      Kind
	Frequency Frequency
	Results   []IndexResult
}

// Len returns the number of rows.
func (rt *ResultTable) Len() int {
	return len(rt.Results)
}

// Values returns the index value of every row.
func (rt *ResultTable) Values() []float64 {
	out := make([]float64, len(rt.Results))
	for i, r := range rt.Results {
		out[i] = r.Value
	}
	return out
}

// Lookup returns the row for a period.
func (rt *ResultTable) Lookup(key timeline.PeriodKey) (IndexResult, bool) {
	for _, r := range rt.Results {
		if r.Period == key {
			return r, true
		}
	}
	return IndexResult{}, false
}

// Header returns the column names of the tabular rendering. Monthly tables
// key rows by year and month, seasonal tables by year and season, annual
// tables by year alone.
func (rt *ResultTable) Header() []string {
	header := []string{"year"}
	switch rt.Frequency {
	case Monthly:
		header = append(header, "month")
	case Seasonal:
		header = append(header, "season")
	}
	header = append(header, "precipitation")
	if rt.Kind == CI {
		header = append(header, "spi_1month", "spi_3month", "moisture_index")
	}
	return append(header, string(rt.Kind), "drought_class")
}

// Records renders the rows as strings aligned with Header. Missing values
// are empty strings.
func (rt *ResultTable) Records() [][]string {
	out := make([][]string, len(rt.Results))
	for i, r := range rt.Results {
		row := []string{strconv.Itoa(r.Period.Year)}
		switch rt.Frequency {
		case Monthly:
			row = append(row, strconv.Itoa(r.Period.Month))
		case Seasonal:
			row = append(row, r.Period.Season.String())
		}
		row = append(row, formatValue(r.Precipitation))
		if rt.Kind == CI {
			c := r.Components
			if c == nil {
				c = &Components{SPI1: math.NaN(), SPI3: math.NaN(), MoistureIndex: math.NaN()}
			}
			row = append(row, formatValue(c.SPI1), formatValue(c.SPI3), formatValue(c.MoistureIndex))
		}
		out[i] = append(row, formatValue(r.Value), r.Class)
	}
	return out
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
