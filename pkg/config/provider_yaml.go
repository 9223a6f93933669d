package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig reads the file, applies environment overrides and defaults, and
// validates the result.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}
	return ParseYAML(cfgFile)
}

// ParseYAML converts a YAML document into ConfigData.
func ParseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Station: StationData{
			Name:     yamlConfig.Station.Name,
			Latitude: yamlConfig.Station.Latitude,
		},
		Source: SourceData{
			Type:             yamlConfig.Source.Type,
			Path:             yamlConfig.Source.Path,
			ConnectionString: yamlConfig.Source.ConnectionString,
			StationName:      yamlConfig.Source.StationName,
		},
		PET: PETData{
			Method:   yamlConfig.PET.Method,
			Fraction: yamlConfig.PET.Fraction,
		},
		Storage: StorageData{
			SQLitePath: yamlConfig.Storage.SQLitePath,
		},
	}

	for _, idx := range yamlConfig.Indices {
		config.Indices = append(config.Indices, IndexData{
			Name:        idx.Name,
			Frequencies: idx.Frequencies,
		})
	}

	if yamlConfig.REST != nil {
		config.REST = &RESTServerData{
			ListenAddr: yamlConfig.REST.ListenAddr,
			Port:       yamlConfig.REST.Port,
		}
	}

	ApplyEnv(config)
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// IsReadOnly returns true; YAML files are never written back
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with the file's dashed key names
type ConfigYAML struct {
	Station StationYAML     `yaml:"station"`
	Source  SourceYAML      `yaml:"source"`
	PET     PETYAML         `yaml:"pet,omitempty"`
	Indices []IndexYAML     `yaml:"indices,omitempty"`
	Storage StorageYAML     `yaml:"storage,omitempty"`
	REST    *RESTServerYAML `yaml:"rest,omitempty"`
}

type StationYAML struct {
	Name     string  `yaml:"name"`
	Latitude float64 `yaml:"latitude"`
}

type SourceYAML struct {
	Type             string `yaml:"type"`
	Path             string `yaml:"path,omitempty"`
	ConnectionString string `yaml:"connection-string,omitempty"`
	StationName      string `yaml:"station-name,omitempty"`
}

type PETYAML struct {
	Method   string  `yaml:"method,omitempty"`
	Fraction float64 `yaml:"fraction,omitempty"`
}

type IndexYAML struct {
	Name        string   `yaml:"name"`
	Frequencies []string `yaml:"frequencies,omitempty"`
}

type StorageYAML struct {
	SQLitePath string `yaml:"sqlite-path,omitempty"`
}

type RESTServerYAML struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}
