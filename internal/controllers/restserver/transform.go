package restserver

import (
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/responseformat"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

func transformResult(r indices.IndexResult) IndexRow {
	row := IndexRow{
		Period:        r.Period.String(),
		Year:          r.Period.Year,
		Precipitation: responseformat.Float(r.Precipitation),
		Value:         responseformat.Float(r.Value),
		Class:         r.Class,
	}
	switch r.Period.Granularity {
	case timeline.MonthPeriod:
		row.Month = r.Period.Month
	case timeline.SeasonPeriod:
		row.Season = r.Period.Season.String()
	}
	if c := r.Components; c != nil {
		row.SPI1 = responseformat.Float(c.SPI1)
		row.SPI3 = responseformat.Float(c.SPI3)
		row.MoistureIndex = responseformat.Float(c.MoistureIndex)
	}
	return row
}

func (h *Handlers) transformTable(rt *indices.ResultTable) IndexTableResponse {
	rows := make([]IndexRow, 0, len(rt.Results))
	for _, r := range rt.Results {
		rows = append(rows, transformResult(r))
	}
	return IndexTableResponse{
		Station:   h.controller.data.Station,
		Index:     string(rt.Kind),
		Frequency: string(rt.Frequency),
		Rows:      rows,
	}
}

func (h *Handlers) transformComparison(cmp *indices.Comparison) ComparisonResponse {
	rows := make([]ComparisonRow, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		row := ComparisonRow{
			Period:        r.Period.String(),
			Precipitation: responseformat.Float(r.Precipitation),
			Value:         responseformat.Float(r.Value),
			Class:         r.Class,
			OtherValue:    responseformat.Float(r.OtherValue),
			OtherClass:    r.OtherClass,
			Difference:    responseformat.Float(r.Difference),
		}
		if r.Agreement != indices.AgreementUnknown {
			agree := r.Agreement == indices.Agree
			row.Agree = &agree
		}
		rows = append(rows, row)
	}
	return ComparisonResponse{
		Station:       h.controller.data.Station,
		Index:         string(cmp.Kind),
		Other:         string(cmp.OtherKind),
		AgreementRate: responseformat.Float(cmp.AgreementRate()),
		Rows:          rows,
	}
}

func (h *Handlers) transformSummary(s indices.Summary) SummaryResponse {
	severe := make([]IndexRow, 0, len(s.SevereDrought))
	for _, r := range s.SevereDrought {
		severe = append(severe, transformResult(r))
	}
	return SummaryResponse{
		Station:        h.controller.data.Station,
		Index:          string(s.Kind),
		Frequency:      string(s.Frequency),
		Periods:        s.Periods,
		Defined:        s.Defined,
		Mean:           responseformat.Float(s.Mean),
		Min:            responseformat.Float(s.Min),
		Max:            responseformat.Float(s.Max),
		StdDev:         responseformat.Float(s.StdDev),
		ClassCounts:    s.ClassCounts,
		DroughtPeriods: s.DroughtPeriods,
		SevereDrought:  severe,
	}
}
