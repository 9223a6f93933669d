package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/droughtindex/pkg/config"
)

func TestLoadConfigFromFlags(t *testing.T) {
	cfg, err := loadConfig("", "records.csv", "mczi, czi", "monthly,annual")
	require.NoError(t, err)
	assert.Equal(t, config.SourceCSV, cfg.Source.Type)
	assert.Equal(t, "records.csv", cfg.Source.Path)
	require.Len(t, cfg.Indices, 2)
	assert.Equal(t, "mczi", cfg.Indices[0].Name)
	assert.Equal(t, []string{"monthly", "annual"}, cfg.Indices[1].Frequencies)
}

func TestLoadConfigNeedsSource(t *testing.T) {
	_, err := loadConfig("", "", "", "monthly")
	assert.Error(t, err)
}

func TestLoadConfigFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station:\n  name: kelso\nsource:\n  type: sqlite\n  path: records.db\n"), 0o600))

	cfg, err := loadConfig(path, "override.csv", "", "monthly")
	require.NoError(t, err)
	assert.Equal(t, "kelso", cfg.Station.Name)
	assert.Equal(t, config.SourceCSV, cfg.Source.Type)
	assert.Equal(t, "override.csv", cfg.Source.Path)
	assert.Len(t, cfg.Indices, 3)
}
