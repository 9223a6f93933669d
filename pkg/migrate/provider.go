package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// StaticProvider serves migrations compiled into the binary and tracks the
// applied version in a SQLite table.
type StaticProvider struct {
	migrations     []Migration
	migrationTable string
}

// NewStaticProvider creates a provider. An empty table name defaults to
// schema_migrations.
func NewStaticProvider(migrationTable string, migrations ...Migration) *StaticProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	return &StaticProvider{migrations: migrations, migrationTable: migrationTable}
}

// GetMigrations returns a copy of the migrations.
func (p *StaticProvider) GetMigrations() ([]Migration, error) {
	seen := make(map[int]bool, len(p.migrations))
	for _, m := range p.migrations {
		if m.Version <= 0 {
			return nil, fmt.Errorf("migration %q has invalid version %d", m.Name, m.Version)
		}
		if seen[m.Version] {
			return nil, fmt.Errorf("duplicate migration version %d", m.Version)
		}
		seen[m.Version] = true
	}
	return append([]Migration(nil), p.migrations...), nil
}

func (p *StaticProvider) CreateMigrationTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, p.migrationTable))
	return err
}

// GetCurrentVersion returns the highest applied migration version
func (p *StaticProvider) GetCurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", p.migrationTable)).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion records version as the highest applied one.
func (p *StaticProvider) SetVersion(ctx context.Context, db Execer, version int) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE version > ?", p.migrationTable), version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	if version == 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("INSERT OR REPLACE INTO %s (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)", p.migrationTable), version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}
