// Package source loads monthly precipitation records into an index table.
package source

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chrissnell/droughtindex/pkg/config"
	"github.com/chrissnell/droughtindex/pkg/indices"
)

// Source produces the monthly table the indices are computed from.
type Source interface {
	Load(ctx context.Context) (indices.Table, error)
	Name() string
	Close() error
}

// New builds the source selected by the configuration.
func New(cfg config.SourceData, logger *zap.SugaredLogger) (Source, error) {
	switch strings.ToLower(cfg.Type) {
	case config.SourceCSV, "":
		return NewCSVSource(cfg.Path), nil
	case config.SourceSQLite:
		return NewSQLiteSource(cfg.Path, logger)
	case config.SourceTimescaleDB:
		src := NewTimescaleSource(cfg.ConnectionString, cfg.StationName, logger)
		if err := src.Connect(); err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}
