// Package export writes result tables and comparisons as CSV.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/chrissnell/droughtindex/pkg/indices"
)

// WriteTable writes the header and records of a result table.
func WriteTable(w io.Writer, rt *indices.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rt.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(rt.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTableFile writes a result table to path, replacing any existing file.
func WriteTableFile(path string, rt *indices.ResultTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, rt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteComparison writes one row per period of a comparison.
func WriteComparison(w io.Writer, cmp *indices.Comparison) error {
	cw := csv.NewWriter(w)
	header := []string{
		"period", "precipitation",
		string(cmp.Kind), string(cmp.Kind) + "_class",
		string(cmp.OtherKind), string(cmp.OtherKind) + "_class",
		"difference", "same_class",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range cmp.Rows {
		row := []string{
			r.Period.String(), format(r.Precipitation),
			format(r.Value), r.Class,
			format(r.OtherValue), r.OtherClass,
			format(r.Difference), r.Agreement.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func format(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
