package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

const createMonthlyRecordsSQL = `CREATE TABLE IF NOT EXISTS monthly_records (
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	precipitation REAL,
	temperature REAL,
	PRIMARY KEY (year, month)
)`

// SQLiteSource reads the monthly_records table of a SQLite database.
type SQLiteSource struct {
	path   string
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLiteSource opens the database and makes sure the table exists.
func NewSQLiteSource(path string, logger *zap.SugaredLogger) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createMonthlyRecordsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create monthly_records table: %w", err)
	}
	return &SQLiteSource{path: path, db: db, logger: logger}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.path }

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Insert upserts monthly records.
func (s *SQLiteSource) Insert(ctx context.Context, records []timeline.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO monthly_records (year, month, precipitation, temperature) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Year, r.Month, nullable(r.Precipitation), nullable(r.Temperature)); err != nil {
			return fmt.Errorf("inserting %04d-%02d: %w", r.Year, r.Month, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Load(ctx context.Context) (indices.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, month, precipitation, temperature FROM monthly_records ORDER BY year, month`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []timeline.Record
	for rows.Next() {
		var (
			r           timeline.Record
			precip, tmp sql.NullFloat64
		)
		if err := rows.Scan(&r.Year, &r.Month, &precip, &tmp); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		r.Precipitation = fromNull(precip)
		r.Temperature = fromNull(tmp)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if s.logger != nil {
		s.logger.Debugf("loaded %d monthly records from %s", len(records), s.path)
	}
	return indices.TableFromRecords(records), nil
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
