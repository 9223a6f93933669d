// Package chart renders index tables as terminal line charts.
package chart

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/chrissnell/droughtindex/pkg/indices"
)

const noData = "No data available"

const (
	minWidth  = 20
	minHeight = 3
)

// RenderTable plots the index values of a table. Undefined periods are gaps.
func RenderTable(rt *indices.ResultTable, width, height int) string {
	values := rt.Values()
	if !anyDefined(values) {
		return noData
	}
	width, height = clamp(width, height)

	caption := fmt.Sprintf("%s %s, %s to %s", rt.Kind, rt.Frequency,
		rt.Results[0].Period, rt.Results[len(rt.Results)-1].Period)
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderComparison plots both sides of a comparison, the primary index in red.
func RenderComparison(cmp *indices.Comparison, width, height int) string {
	primary := make([]float64, len(cmp.Rows))
	other := make([]float64, len(cmp.Rows))
	for i, r := range cmp.Rows {
		primary[i] = r.Value
		other[i] = r.OtherValue
	}
	if !anyDefined(primary) && !anyDefined(other) {
		return noData
	}
	width, height = clamp(width, height)

	return asciigraph.PlotMany([][]float64{primary, other},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s (red) vs %s (blue)", cmp.Kind, cmp.OtherKind)),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)
}

func anyDefined(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func clamp(width, height int) (int, int) {
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	return width, height
}
