package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

func table(values ...float64) *indices.ResultTable {
	rt := &indices.ResultTable{Kind: indices.MCZI, Frequency: indices.Monthly}
	for i, v := range values {
		rt.Results = append(rt.Results, indices.IndexResult{Period: timeline.MonthKey(2000, i+1), Value: v})
	}
	return rt
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(table(math.NaN(), -1.2, 0.4, 1.8), 40, 6)
	assert.Contains(t, out, "MCZI monthly, 2000-01 to 2000-04")
	assert.NotEqual(t, noData, out)
}

func TestRenderTableAllMissing(t *testing.T) {
	assert.Equal(t, noData, RenderTable(table(math.NaN(), math.NaN()), 40, 6))
	assert.Equal(t, noData, RenderTable(table(), 40, 6))
}

func TestRenderComparison(t *testing.T) {
	cmp := &indices.Comparison{
		Kind:      indices.MCZI,
		OtherKind: indices.CZI,
		Rows: []indices.ComparisonRow{
			{Period: timeline.MonthKey(2000, 1), Value: -0.6, OtherValue: -0.8},
			{Period: timeline.MonthKey(2000, 2), Value: 0.9, OtherValue: 1.1},
		},
	}
	out := RenderComparison(cmp, 5, 1)
	assert.Contains(t, out, "MCZI (red) vs CZI (blue)")
}
