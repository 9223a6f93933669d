package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/droughtindex/pkg/indices"
)

// CSVSource reads a file with a header row naming the year, month,
// precipitation and optional temperature columns. Other columns are ignored.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (c *CSVSource) Name() string { return "csv:" + c.path }

func (c *CSVSource) Close() error { return nil }

func (c *CSVSource) Load(ctx context.Context) (indices.Table, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses CSV records into a table. Empty cells are missing values.
func ReadCSV(ctx context.Context, r io.Reader) (indices.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &indices.SchemaError{Reason: "empty input"}
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	wanted := []string{indices.ColumnYear, indices.ColumnMonth, indices.ColumnPrecipitation, indices.ColumnTemperature}
	positions := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		for _, w := range wanted {
			if name == w {
				positions[w] = i
			}
		}
	}

	var missing []string
	for _, w := range wanted[:3] {
		if _, ok := positions[w]; !ok {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return nil, &indices.SchemaError{Missing: missing}
	}

	t := indices.Table{}
	for name := range positions {
		t[name] = nil
	}

	for row := 0; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}

		for name, pos := range positions {
			v := math.NaN()
			if pos < len(rec) {
				if cell := strings.TrimSpace(rec[pos]); cell != "" {
					v, err = strconv.ParseFloat(cell, 64)
					if err != nil {
						return nil, &indices.RecordError{Row: row, Column: name, Err: err}
					}
				}
			}
			t[name] = append(t[name], v)
		}
	}
	return t, nil
}
