package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrDuplicateMonth = errors.New("duplicate (year, month) record")
)

// Record is one month of observations. Missing values are NaN.
type Record struct {
	Year          int
	Month         int
	Precipitation float64
	Temperature   float64
}

// Time returns the first-of-month timestamp of the record.
func (r Record) Time() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Key returns the monthly period key of the record.
func (r Record) Key() PeriodKey {
	return MonthKey(r.Year, r.Month)
}

func (r Record) ordinal() int {
	return r.Year*12 + r.Month - 1
}

// Series is a contiguous, chronologically ordered run of monthly records.
// Months absent from the input between the first and last record are present
// with NaN values.
type Series struct {
	records []Record
}

// NewSeries orders the records, rejects duplicates and fills gaps with
// missing months. The input slice is not modified.
func NewSeries(records []Record) (*Series, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	for _, r := range sorted {
		if r.Month < 1 || r.Month > 12 {
			return nil, fmt.Errorf("%04d-%02d: %w", r.Year, r.Month, ErrInvalidMonth)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ordinal() < sorted[j].ordinal()
	})

	var filled []Record
	for i, r := range sorted {
		if i > 0 {
			prev := sorted[i-1].ordinal()
			if r.ordinal() == prev {
				return nil, fmt.Errorf("%s: %w", r.Key(), ErrDuplicateMonth)
			}
			for o := prev + 1; o < r.ordinal(); o++ {
				filled = append(filled, Record{
					Year:          o / 12,
					Month:         o%12 + 1,
					Precipitation: math.NaN(),
					Temperature:   math.NaN(),
				})
			}
		}
		filled = append(filled, r)
	}

	return &Series{records: filled}, nil
}

// Len returns the number of months in the series, gaps included.
func (s *Series) Len() int {
	return len(s.records)
}

// Records returns a copy of the monthly records.
func (s *Series) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Keys returns the monthly period keys in order.
func (s *Series) Keys() []PeriodKey {
	keys := make([]PeriodKey, len(s.records))
	for i, r := range s.records {
		keys[i] = r.Key()
	}
	return keys
}

// Precipitation returns the monthly precipitation values.
func (s *Series) Precipitation() []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = r.Precipitation
	}
	return out
}

// Temperature returns the monthly temperature values.
func (s *Series) Temperature() []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = r.Temperature
	}
	return out
}

// HasTemperature reports whether any month carries a temperature value.
func (s *Series) HasTemperature() bool {
	for _, r := range s.records {
		if !math.IsNaN(r.Temperature) {
			return true
		}
	}
	return false
}

// Bucket is the precipitation total of one period.
type Bucket struct {
	Key           PeriodKey
	Precipitation float64 // NaN when no month in the bucket has a value
	Months        int     // months with a defined value
}

// Seasonal sums precipitation per season bucket, in chronological order.
func (s *Series) Seasonal() []Bucket {
	return s.aggregate(func(r Record) PeriodKey {
		season, year := SeasonOf(r.Year, r.Month)
		return SeasonKey(year, season)
	})
}

// Annual sums precipitation per calendar year, in chronological order.
func (s *Series) Annual() []Bucket {
	return s.aggregate(func(r Record) PeriodKey {
		return YearKey(r.Year)
	})
}

// aggregate relies on the records being chronological: every bucket is a
// contiguous run of months, so a change of key closes the current bucket.
func (s *Series) aggregate(keyOf func(Record) PeriodKey) []Bucket {
	var buckets []Bucket
	for _, r := range s.records {
		key := keyOf(r)
		if len(buckets) == 0 || buckets[len(buckets)-1].Key != key {
			buckets = append(buckets, Bucket{Key: key, Precipitation: math.NaN()})
		}
		b := &buckets[len(buckets)-1]
		if math.IsNaN(r.Precipitation) {
			continue
		}
		if b.Months == 0 {
			b.Precipitation = 0
		}
		b.Precipitation += r.Precipitation
		b.Months++
	}
	return buckets
}

// Totals returns the precipitation values of the buckets.
func Totals(buckets []Bucket) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = b.Precipitation
	}
	return out
}
