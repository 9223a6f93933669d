package indices

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// Input column names.
const (
	ColumnYear          = "year"
	ColumnMonth         = "month"
	ColumnPrecipitation = "precipitation"
	ColumnTemperature   = "temperature"
)

var requiredColumns = []string{ColumnYear, ColumnMonth, ColumnPrecipitation}

// Table is a column-oriented in-memory table. Missing cells are NaN. The
// year, month and precipitation columns are required; temperature is optional.
type Table map[string][]float64

// TableFromRecords builds a table from monthly records. The temperature
// column is only added when at least one record carries a temperature.
func TableFromRecords(records []timeline.Record) Table {
	t := Table{
		ColumnYear:          make([]float64, len(records)),
		ColumnMonth:         make([]float64, len(records)),
		ColumnPrecipitation: make([]float64, len(records)),
	}
	temps := make([]float64, len(records))
	hasTemp := false
	for i, r := range records {
		t[ColumnYear][i] = float64(r.Year)
		t[ColumnMonth][i] = float64(r.Month)
		t[ColumnPrecipitation][i] = r.Precipitation
		temps[i] = r.Temperature
		if !math.IsNaN(r.Temperature) {
			hasTemp = true
		}
	}
	if hasTemp {
		t[ColumnTemperature] = temps
	}
	return t
}

// Len returns the number of rows, taken from the year column.
func (t Table) Len() int {
	return len(t[ColumnYear])
}

// Validate checks the schema: every required column is present and all
// columns have the same length.
func (t Table) Validate() error {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := t[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	n := t.Len()
	for name, col := range t {
		if len(col) != n {
			return &SchemaError{Reason: fmt.Sprintf("column %s has %d rows, expected %d", name, len(col), n)}
		}
	}
	return nil
}

// Series validates the table and converts it into a monthly series.
func (t Table) Series() (*timeline.Series, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	temps, hasTemp := t[ColumnTemperature]
	records := make([]timeline.Record, t.Len())
	for i := range records {
		year, err := integral(t[ColumnYear][i])
		if err != nil {
			return nil, &RecordError{Row: i, Column: ColumnYear, Err: err}
		}
		month, err := integral(t[ColumnMonth][i])
		if err != nil {
			return nil, &RecordError{Row: i, Column: ColumnMonth, Err: err}
		}
		if month < 1 || month > 12 {
			return nil, &RecordError{Row: i, Column: ColumnMonth, Err: timeline.ErrInvalidMonth}
		}

		p := t[ColumnPrecipitation][i]
		if p < 0 {
			return nil, &RecordError{Row: i, Column: ColumnPrecipitation, Err: fmt.Errorf("negative precipitation %v", p)}
		}
		if math.IsInf(p, 0) {
			return nil, &RecordError{Row: i, Column: ColumnPrecipitation, Err: fmt.Errorf("infinite precipitation %v", p)}
		}

		temp := math.NaN()
		if hasTemp {
			temp = temps[i]
		}
		records[i] = timeline.Record{Year: year, Month: month, Precipitation: p, Temperature: temp}
	}

	s, err := timeline.NewSeries(records)
	if err != nil {
		if errors.Is(err, timeline.ErrDuplicateMonth) {
			return nil, &RecordError{Row: -1, Err: err}
		}
		return nil, err
	}
	return s, nil
}

func integral(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	return int(v), nil
}
