package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/droughtindex/pkg/classify"
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

func newTestStore(t *testing.T, clock clockwork.Clock) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "results.db"), clock, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seasonalTable() *indices.ResultTable {
	return &indices.ResultTable{
		Kind:      indices.MCZI,
		Frequency: indices.Seasonal,
		Results: []indices.IndexResult{
			{Period: timeline.SeasonKey(1999, timeline.Winter), Precipitation: 22, Value: math.NaN(), Class: classify.NoData},
			{Period: timeline.SeasonKey(2000, timeline.Spring), Precipitation: 28, Value: -0.7, Class: classify.MildDrought},
		},
	}
}

func compositeTable() *indices.ResultTable {
	return &indices.ResultTable{
		Kind:      indices.CI,
		Frequency: indices.Monthly,
		Results: []indices.IndexResult{
			{
				Period: timeline.MonthKey(2000, 4), Precipitation: 10, Value: -1.3, Class: classify.ModerateDrought,
				Components: &indices.Components{SPI1: -1.5, SPI3: math.NaN(), MoistureIndex: 0.3},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := newTestStore(t, clock)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, "kelso", seasonalTable(), compositeTable())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, clock.Now(), run.CreatedAt)

	got, err := s.LoadResults(ctx, run.ID, indices.MCZI, indices.Seasonal)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, timeline.SeasonKey(1999, timeline.Winter), got.Results[0].Period)
	assert.True(t, math.IsNaN(got.Results[0].Value))
	assert.Equal(t, -0.7, got.Results[1].Value)
	assert.Equal(t, classify.MildDrought, got.Results[1].Class)
	assert.Nil(t, got.Results[1].Components)

	ci, err := s.LoadResults(ctx, run.ID, indices.CI, indices.Monthly)
	require.NoError(t, err)
	require.Equal(t, 1, ci.Len())
	require.NotNil(t, ci.Results[0].Components)
	assert.Equal(t, -1.5, ci.Results[0].Components.SPI1)
	assert.True(t, math.IsNaN(ci.Results[0].Components.SPI3))
	assert.Equal(t, timeline.MonthKey(2000, 4), ci.Results[0].Period)

	_, err = s.LoadResults(ctx, run.ID, indices.CZI, indices.Annual)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLatestRun(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := newTestStore(t, clock)
	ctx := context.Background()

	_, err := s.LatestRun(ctx, "kelso")
	assert.True(t, errors.Is(err, ErrNotFound))

	first, err := s.SaveRun(ctx, "kelso", seasonalTable())
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := s.SaveRun(ctx, "kelso", seasonalTable())
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, "other", seasonalTable())
	require.NoError(t, err)

	latest, err := s.LatestRun(ctx, "kelso")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.NotEqual(t, first.ID, latest.ID)
	assert.Equal(t, second.CreatedAt, latest.CreatedAt)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, nil, nil)
	require.NoError(t, err)
	run, err := s.SaveRun(ctx, "kelso", compositeTable())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	latest, err := s.LatestRun(ctx, "kelso")
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
}
