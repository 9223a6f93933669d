package source

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chrissnell/droughtindex/pkg/config"
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

func TestReadCSV(t *testing.T) {
	input := "Year,Month,Precipitation,Temperature,station\n" +
		"2000,1,12.5,3.1,kelso\n" +
		"2000,2,,4.0,kelso\n" +
		"2000,3,40,,kelso\n"

	table, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, table.Validate())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []float64{1, 2, 3}, table[indices.ColumnMonth])
	assert.True(t, math.IsNaN(table[indices.ColumnPrecipitation][1]))
	assert.True(t, math.IsNaN(table[indices.ColumnTemperature][2]))
	assert.Len(t, table, 4)
}

func TestReadCSVSchemaErrors(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("year,precip\n2000,3\n"))
	require.Error(t, err)

	var schemaErr *indices.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{indices.ColumnMonth, indices.ColumnPrecipitation}, schemaErr.Missing)

	_, err = ReadCSV(context.Background(), strings.NewReader(""))
	assert.True(t, errors.Is(err, indices.ErrSchema))
}

func TestReadCSVBadCell(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("year,month,precipitation\n2000,1,abc\n"))
	require.Error(t, err)

	var recErr *indices.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 0, recErr.Row)
	assert.Equal(t, indices.ColumnPrecipitation, recErr.Column)
}

func TestCSVSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte("year,month,precipitation\n1999,12,5\n2000,1,6\n"), 0o600))

	src, err := New(config.SourceData{Type: config.SourceCSV, Path: path}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer src.Close()

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1999, 2000}, table[indices.ColumnYear])
	assert.Contains(t, src.Name(), "records.csv")
}

func TestSQLiteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	src, err := NewSQLiteSource(path, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer src.Close()

	records := []timeline.Record{
		{Year: 2001, Month: 2, Precipitation: 30, Temperature: math.NaN()},
		{Year: 2001, Month: 1, Precipitation: 20, Temperature: 1.5},
		{Year: 2001, Month: 3, Precipitation: math.NaN(), Temperature: 6},
	}
	require.NoError(t, src.Insert(context.Background(), records))

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, table[indices.ColumnMonth])
	assert.Equal(t, 20.0, table[indices.ColumnPrecipitation][0])
	assert.True(t, math.IsNaN(table[indices.ColumnPrecipitation][2]))
	assert.True(t, math.IsNaN(table[indices.ColumnTemperature][1]))
	assert.Equal(t, 6.0, table[indices.ColumnTemperature][2])

	records[0].Precipitation = 35
	require.NoError(t, src.Insert(context.Background(), records[:1]))
	table, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 35.0, table[indices.ColumnPrecipitation][1])
}

func TestTimescaleRowConversion(t *testing.T) {
	rain, temp := 2.0, 50.0
	records := toRecords([]monthlyRow{
		{Year: 2020, Month: 6, Rain: &rain, OutTemp: &temp},
		{Year: 2020, Month: 7},
	})
	require.Len(t, records, 2)
	assert.InDelta(t, 50.8, records[0].Precipitation, 1e-9)
	assert.InDelta(t, 10.0, records[0].Temperature, 1e-9)
	assert.True(t, math.IsNaN(records[1].Precipitation))
	assert.True(t, math.IsNaN(records[1].Temperature))
}

func TestTimescaleNotConnected(t *testing.T) {
	src := NewTimescaleSource("postgres://unused", "kelso", zap.NewNop().Sugar())
	_, err := src.Load(context.Background())
	assert.Error(t, err)
	assert.NoError(t, src.Close())
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.SourceData{Type: "influx"}, zap.NewNop().Sugar())
	assert.Error(t, err)
}
