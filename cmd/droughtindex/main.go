package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chrissnell/droughtindex/internal/app"
	"github.com/chrissnell/droughtindex/internal/log"
	"github.com/chrissnell/droughtindex/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration file")
	input := flag.String("input", "", "CSV file with year,month,precipitation[,temperature] columns; replaces the configured source")
	index := flag.String("index", "", "Comma-separated indices to compute (CZI, MCZI, CI); replaces the configured list")
	frequency := flag.String("frequency", "monthly", "Comma-separated frequencies used with -index (monthly, seasonal, annual)")
	plot := flag.Bool("plot", false, "Draw a terminal chart of every computed table")
	exportDir := flag.String("export", "", "Directory to write every computed table as CSV")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("droughtindex %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := config.LoadEnvFiles(); err != nil {
		log.Errorf("Failed to load .env: %v", err)
		os.Exit(1)
	}

	cfgData, err := loadConfig(*cfgFile, *input, *index, *frequency)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	application := app.New(cfgData, log.GetSugaredLogger(),
		app.WithPlot(*plot),
		app.WithExportDir(*exportDir),
	)
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML file when one is given and applies the command
// line overrides. Without a file, -input is required.
func loadConfig(cfgFile, input, index, frequency string) (*config.ConfigData, error) {
	var cfgData *config.ConfigData

	if cfgFile != "" {
		filename, _ := filepath.Abs(cfgFile)
		provider := config.NewYAMLProvider(filename)
		defer provider.Close()

		var err error
		cfgData, err = provider.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
		}
	} else {
		if input == "" {
			return nil, fmt.Errorf("either -config or -input is required")
		}
		cfgData = &config.ConfigData{}
		config.ApplyEnv(cfgData)
	}

	if input != "" {
		cfgData.Source = config.SourceData{Type: config.SourceCSV, Path: input}
	}
	if index != "" {
		cfgData.Indices = nil
		for _, name := range splitList(index) {
			cfgData.Indices = append(cfgData.Indices, config.IndexData{
				Name:        name,
				Frequencies: splitList(frequency),
			})
		}
	}

	cfgData.ApplyDefaults()
	if err := cfgData.Validate(); err != nil {
		return nil, err
	}
	return cfgData, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
