package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
station:
  name: kelso
  latitude: 46.15
source:
  type: timescaledb
  connection-string: postgres://weather@localhost/weather
pet:
  method: thornthwaite
indices:
  - name: MCZI
    frequencies: [monthly, seasonal, annual]
  - name: CI
storage:
  sqlite-path: /var/lib/droughtindex/results.db
rest:
  listen-addr: 127.0.0.1
`

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "kelso", cfg.Station.Name)
	assert.InDelta(t, 46.15, cfg.Station.Latitude, 1e-9)
	assert.Equal(t, SourceTimescaleDB, cfg.Source.Type)
	assert.Equal(t, "kelso", cfg.Source.StationName)
	assert.Equal(t, "thornthwaite", cfg.PET.Method)
	require.Len(t, cfg.Indices, 2)
	assert.Equal(t, []string{"monthly", "seasonal", "annual"}, cfg.Indices[0].Frequencies)
	assert.Equal(t, []string{"monthly"}, cfg.Indices[1].Frequencies)
	assert.Equal(t, "/var/lib/droughtindex/results.db", cfg.Storage.SQLitePath)
	require.NotNil(t, cfg.REST)
	assert.Equal(t, defaultRESTPort, cfg.REST.Port)
}

func TestDefaults(t *testing.T) {
	cfg, err := ParseYAML([]byte("source:\n  path: records.csv\n"))
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, cfg.Source.Type)
	assert.Len(t, cfg.Indices, 3)
	assert.Nil(t, cfg.REST)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"csv without path", "source:\n  type: csv\n"},
		{"unknown source", "source:\n  type: influx\n  path: x\n"},
		{"timescale without connection", "station:\n  name: a\nsource:\n  type: timescaledb\n"},
		{"bad latitude", "station:\n  latitude: 95\nsource:\n  path: x\n"},
		{"bad pet", "source:\n  path: x\npet:\n  method: penman\n"},
		{"bad fraction", "source:\n  path: x\npet:\n  fraction: 1.5\n"},
		{"unnamed index", "source:\n  path: x\nindices:\n  - frequencies: [monthly]\n"},
		{"malformed", "source: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSourceConnection, "postgres://override")
	t.Setenv(EnvLatitude, "-33.9")
	t.Setenv(EnvRESTPort, "9090")

	cfg, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "postgres://override", cfg.Source.ConnectionString)
	assert.InDelta(t, -33.9, cfg.Station.Latitude, 1e-9)
	assert.Equal(t, 9090, cfg.REST.Port)
}

func TestYAMLProviderAndEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("source:\n  type: sqlite\n"), 0o600))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(EnvSourcePath+"="+filepath.Join(dir, "records.db")+"\n"), 0o600))
	t.Setenv(EnvSourcePath, "")
	require.NoError(t, os.Unsetenv(EnvSourcePath))

	require.NoError(t, LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")))

	p := NewYAMLProvider(cfgPath)
	defer p.Close()
	assert.True(t, p.IsReadOnly())

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceSQLite, cfg.Source.Type)
	assert.Equal(t, filepath.Join(dir, "records.db"), cfg.Source.Path)
}
