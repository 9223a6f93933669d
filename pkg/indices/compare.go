package indices

import (
	"fmt"
	"math"
	"sort"

	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// Agreement records whether two tables classify a period the same way.
type Agreement int

const (
	// AgreementUnknown means one of the tables has no row for the period.
	AgreementUnknown Agreement = iota
	Agree
	Disagree
)

func (a Agreement) String() string {
	switch a {
	case Agree:
		return "true"
	case Disagree:
		return "false"
	default:
		return ""
	}
}

// ComparisonRow pairs the rows of two tables for one period.
type ComparisonRow struct {
	Period        timeline.PeriodKey
	Precipitation float64
	Value         float64
	Class         string
	OtherValue    float64
	OtherClass    string
	Difference    float64 // Value - OtherValue
	Agreement     Agreement
}

// Comparison joins two monthly result tables on period.
type Comparison struct {
	Kind      Kind
	OtherKind Kind
	Rows      []ComparisonRow
}

// CompareTables joins two monthly tables. Periods present in only one table
// get a NaN counterpart value, an empty counterpart class and unknown
// agreement.
func CompareTables(primary, other *ResultTable) (*Comparison, error) {
	if primary == nil || other == nil {
		return nil, fmt.Errorf("comparison needs two result tables")
	}
	if primary.Frequency != Monthly || other.Frequency != Monthly {
		return nil, fmt.Errorf("comparison needs monthly tables, got %s and %s", primary.Frequency, other.Frequency)
	}

	otherRows := make(map[timeline.PeriodKey]IndexResult, len(other.Results))
	for _, r := range other.Results {
		otherRows[r.Period] = r
	}

	cmp := &Comparison{Kind: primary.Kind, OtherKind: other.Kind}
	seen := make(map[timeline.PeriodKey]bool, len(primary.Results))
	for _, r := range primary.Results {
		seen[r.Period] = true
		row := ComparisonRow{
			Period:        r.Period,
			Precipitation: r.Precipitation,
			Value:         r.Value,
			Class:         r.Class,
			OtherValue:    math.NaN(),
			Difference:    math.NaN(),
		}
		if o, ok := otherRows[r.Period]; ok {
			row.OtherValue = o.Value
			row.OtherClass = o.Class
			row.Difference = r.Value - o.Value
			if r.Class == o.Class {
				row.Agreement = Agree
			} else {
				row.Agreement = Disagree
			}
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	for _, o := range other.Results {
		if seen[o.Period] {
			continue
		}
		cmp.Rows = append(cmp.Rows, ComparisonRow{
			Period:        o.Period,
			Precipitation: o.Precipitation,
			Value:         math.NaN(),
			OtherValue:    o.Value,
			OtherClass:    o.Class,
			Difference:    math.NaN(),
		})
	}

	sort.SliceStable(cmp.Rows, func(i, j int) bool {
		return cmp.Rows[i].Period.Before(cmp.Rows[j].Period)
	})
	return cmp, nil
}

// AgreementRate returns the share of periods with known agreement whose
// classes match. It is NaN when no period has a counterpart.
func (c *Comparison) AgreementRate() float64 {
	known, agree := 0, 0
	for _, r := range c.Rows {
		switch r.Agreement {
		case Agree:
			agree++
			known++
		case Disagree:
			known++
		}
	}
	if known == 0 {
		return math.NaN()
	}
	return float64(agree) / float64(known)
}
