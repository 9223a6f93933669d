// Package store persists computed index tables in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/migrate"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

// ErrNotFound is returned when a run or table does not exist.
var ErrNotFound = errors.New("not found")

var migrations = []migrate.Migration{
	{
		Version: 1,
		Name:    "create runs",
		Up: `CREATE TABLE runs (
			id TEXT PRIMARY KEY,
			station TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		Down: `DROP TABLE runs`,
	},
	{
		Version: 2,
		Name:    "create results",
		Up: `CREATE TABLE results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			frequency TEXT NOT NULL,
			seq INTEGER NOT NULL,
			granularity INTEGER NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			season INTEGER NOT NULL,
			precipitation REAL,
			value REAL,
			class TEXT NOT NULL,
			spi_1month REAL,
			spi_3month REAL,
			moisture_index REAL,
			PRIMARY KEY (run_id, kind, frequency, seq)
		)`,
		Down: `DROP TABLE results`,
	},
	{
		Version: 3,
		Name:    "index runs by station",
		Up:      `CREATE INDEX runs_station_created_idx ON runs (station, created_at)`,
		Down:    `DROP INDEX runs_station_created_idx`,
	},
}

// Run is one stored computation.
type Run struct {
	ID        string
	Station   string
	CreatedAt time.Time
}

// SQLiteStore stores runs and their result tables.
type SQLiteStore struct {
	db     *sql.DB
	clock  clockwork.Clock
	logger *zap.SugaredLogger
}

// NewSQLiteStore opens or creates the results database. A nil clock uses
// the real clock.
func NewSQLiteStore(path string, clock clockwork.Clock, logger *zap.SugaredLogger) (*SQLiteStore, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	migrator := migrate.NewMigrator(db, migrate.NewStaticProvider("", migrations...), logger)
	if _, err := migrator.MigrateUp(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate results schema: %w", err)
	}

	return &SQLiteStore{db: db, clock: clock, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores the tables under a new run id.
func (s *SQLiteStore) SaveRun(ctx context.Context, station string, tables ...*indices.ResultTable) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Station:   station,
		CreatedAt: s.clock.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, station, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Station, run.CreatedAt.UnixNano()); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(run_id, kind, frequency, seq, granularity, year, month, season, precipitation, value, class, spi_1month, spi_3month, moisture_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	rows := 0
	for _, rt := range tables {
		for i, r := range rt.Results {
			spi1, spi3, mi := sql.NullFloat64{}, sql.NullFloat64{}, sql.NullFloat64{}
			if r.Components != nil {
				spi1, spi3, mi = nullable(r.Components.SPI1), nullable(r.Components.SPI3), nullable(r.Components.MoistureIndex)
			}
			_, err := stmt.ExecContext(ctx,
				run.ID, string(rt.Kind), string(rt.Frequency), i,
				int(r.Period.Granularity), r.Period.Year, r.Period.Month, int(r.Period.Season),
				nullable(r.Precipitation), nullable(r.Value), r.Class,
				spi1, spi3, mi,
			)
			if err != nil {
				return Run{}, fmt.Errorf("inserting %s %s %s: %w", rt.Kind, rt.Frequency, r.Period, err)
			}
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, err
	}
	s.logger.Infow("stored run", "run_id", run.ID, "station", station, "tables", len(tables), "rows", rows)
	return run, nil
}

// LatestRun returns the most recent run of a station.
func (s *SQLiteStore) LatestRun(ctx context.Context, station string) (Run, error) {
	var (
		run   Run
		nanos int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, station, created_at FROM runs WHERE station = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		station).Scan(&run.ID, &run.Station, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("no runs for station %q: %w", station, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.Unix(0, nanos).UTC()
	return run, nil
}

// LoadResults reads one table of a run.
func (s *SQLiteStore) LoadResults(ctx context.Context, runID string, kind indices.Kind, freq indices.Frequency) (*indices.ResultTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT granularity, year, month, season, precipitation, value, class, spi_1month, spi_3month, moisture_index
		FROM results WHERE run_id = ? AND kind = ? AND frequency = ? ORDER BY seq`,
		runID, string(kind), string(freq))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	rt := &indices.ResultTable{Kind: kind, Frequency: freq}
	for rows.Next() {
		var (
			granularity, season    int
			r                      indices.IndexResult
			precip, value          sql.NullFloat64
			spi1, spi3, moistureIx sql.NullFloat64
		)
		if err := rows.Scan(&granularity, &r.Period.Year, &r.Period.Month, &season,
			&precip, &value, &r.Class, &spi1, &spi3, &moistureIx); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		r.Period.Granularity = timeline.Granularity(granularity)
		r.Period.Season = timeline.Season(season)
		r.Precipitation = fromNull(precip)
		r.Value = fromNull(value)
		if kind == indices.CI {
			r.Components = &indices.Components{
				SPI1:          fromNull(spi1),
				SPI3:          fromNull(spi3),
				MoistureIndex: fromNull(moistureIx),
			}
		}
		rt.Results = append(rt.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	if len(rt.Results) == 0 {
		return nil, fmt.Errorf("%s %s in run %s: %w", kind, freq, runID, ErrNotFound)
	}
	return rt, nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
