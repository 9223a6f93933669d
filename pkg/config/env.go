package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvSourceConnection = "DROUGHT_SOURCE_CONNECTION_STRING"
	EnvSourcePath       = "DROUGHT_SOURCE_PATH"
	EnvStoragePath      = "DROUGHT_STORAGE_PATH"
	EnvLatitude         = "DROUGHT_LATITUDE"
	EnvRESTPort         = "DROUGHT_REST_PORT"
)

// LoadEnvFiles loads .env files into the process environment. Missing files
// are skipped; variables already set are not overwritten.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides connection settings from DROUGHT_* variables. Values that
// fail to parse are ignored.
func ApplyEnv(c *ConfigData) {
	if v := os.Getenv(EnvSourceConnection); v != "" {
		c.Source.ConnectionString = v
	}
	if v := os.Getenv(EnvSourcePath); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv(EnvLatitude); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Station.Latitude = lat
		}
	}
	if v := os.Getenv(EnvRESTPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			if c.REST == nil {
				c.REST = &RESTServerData{}
			}
			c.REST.Port = port
		}
	}
}
