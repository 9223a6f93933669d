package config

import (
	"fmt"
	"strings"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Station StationData     `json:"station"`
	Source  SourceData      `json:"source"`
	PET     PETData         `json:"pet,omitempty"`
	Indices []IndexData     `json:"indices,omitempty"`
	Storage StorageData     `json:"storage,omitempty"`
	REST    *RESTServerData `json:"rest,omitempty"`
}

// StationData describes the station the records belong to
type StationData struct {
	Name     string  `json:"name"`
	Latitude float64 `json:"latitude"`
}

// SourceData selects where monthly records are read from
type SourceData struct {
	Type             string `json:"type"`
	Path             string `json:"path,omitempty"`
	ConnectionString string `json:"connection_string,omitempty"`
	StationName      string `json:"station_name,omitempty"`
}

// PETData selects the potential evapotranspiration estimator of the
// Composite Index. An empty method picks one from the available columns.
type PETData struct {
	Method   string  `json:"method,omitempty"`
	Fraction float64 `json:"fraction,omitempty"`
}

// IndexData is one index family and the frequencies to compute it at
type IndexData struct {
	Name        string   `json:"name"`
	Frequencies []string `json:"frequencies,omitempty"`
}

// StorageData holds the results store configuration
type StorageData struct {
	SQLitePath string `json:"sqlite_path,omitempty"`
}

type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// Source types
const (
	SourceCSV         = "csv"
	SourceTimescaleDB = "timescaledb"
	SourceSQLite      = "sqlite"
)

const defaultRESTPort = 8080

// ApplyDefaults fills unset optional fields.
func (c *ConfigData) ApplyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = SourceCSV
	}
	if c.Source.StationName == "" {
		c.Source.StationName = c.Station.Name
	}
	if len(c.Indices) == 0 {
		c.Indices = []IndexData{
			{Name: "CZI", Frequencies: []string{"monthly"}},
			{Name: "MCZI", Frequencies: []string{"monthly"}},
			{Name: "CI", Frequencies: []string{"monthly"}},
		}
	}
	for i := range c.Indices {
		if len(c.Indices[i].Frequencies) == 0 {
			c.Indices[i].Frequencies = []string{"monthly"}
		}
	}
	if c.REST != nil && c.REST.Port == 0 {
		c.REST.Port = defaultRESTPort
	}
}

// Validate checks that the configuration can be acted on.
func (c *ConfigData) Validate() error {
	if c.Station.Latitude < -90 || c.Station.Latitude > 90 {
		return fmt.Errorf("station latitude %.2f out of range", c.Station.Latitude)
	}

	switch strings.ToLower(c.Source.Type) {
	case SourceCSV, SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("%s source requires a path", c.Source.Type)
		}
	case SourceTimescaleDB:
		if c.Source.ConnectionString == "" {
			return fmt.Errorf("timescaledb source requires a connection string")
		}
		if c.Source.StationName == "" {
			return fmt.Errorf("timescaledb source requires a station name")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	switch strings.ToLower(c.PET.Method) {
	case "", "fraction", "hargreaves", "thornthwaite":
	default:
		return fmt.Errorf("unknown PET method %q", c.PET.Method)
	}
	if c.PET.Fraction < 0 || c.PET.Fraction > 1 {
		return fmt.Errorf("PET fraction %.2f must be between 0 and 1", c.PET.Fraction)
	}

	for _, idx := range c.Indices {
		if idx.Name == "" {
			return fmt.Errorf("index entry without a name")
		}
	}

	if c.REST != nil && (c.REST.Port < 1 || c.REST.Port > 65535) {
		return fmt.Errorf("rest port %d out of range", c.REST.Port)
	}
	return nil
}
