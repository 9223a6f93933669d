// Package app wires the record source, the index calculators, the results
// store and the REST controller together.
package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/chrissnell/droughtindex/internal/chart"
	"github.com/chrissnell/droughtindex/internal/controllers/restserver"
	"github.com/chrissnell/droughtindex/internal/export"
	"github.com/chrissnell/droughtindex/internal/observability"
	"github.com/chrissnell/droughtindex/internal/source"
	"github.com/chrissnell/droughtindex/internal/store"
	"github.com/chrissnell/droughtindex/pkg/config"
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/moisture"
)

// App represents the main application
type App struct {
	cfg      *config.ConfigData
	logger   *zap.SugaredLogger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	clock    clockwork.Clock

	src       source.Source
	out       io.Writer
	plot      bool
	exportDir string
}

// Option configures an App.
type Option func(*App)

// WithSource replaces the configured record source.
func WithSource(src source.Source) Option {
	return func(a *App) { a.src = src }
}

// WithClock sets the clock used for stored run timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithOutput sets where the report is written. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithPlot adds a terminal chart of every table to the report.
func WithPlot(plot bool) Option {
	return func(a *App) { a.plot = plot }
}

// WithExportDir writes every table as CSV into dir.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger, opts ...Option) *App {
	reg := prometheus.NewRegistry()
	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  observability.NewMetrics(reg),
		clock:    clockwork.NewRealClock(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Report is the outcome of one computation pass.
type Report struct {
	Table      indices.Table
	Estimator  string
	Tables     []*indices.ResultTable
	Comparison *indices.Comparison // nil unless both Z indices are computed monthly

	options []indices.Option
}

// Compute loads the records and computes every configured index and frequency.
// A frequency an index does not support is logged and skipped.
func (a *App) Compute(ctx context.Context) (*Report, error) {
	src := a.src
	if src == nil {
		var err error
		src, err = source.New(a.cfg.Source, a.logger)
		if err != nil {
			return nil, err
		}
		defer src.Close()
	}

	table, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records from %s: %w", src.Name(), err)
	}
	a.metrics.LoadedMonths.Set(float64(table.Len()))
	a.logger.Infow("loaded records", "source", src.Name(), "rows", table.Len())

	opts, estimatorName, err := a.calculatorOptions(table)
	if err != nil {
		return nil, err
	}
	rep := &Report{Table: table, Estimator: estimatorName, options: opts}

	for _, idx := range a.cfg.Indices {
		kind, err := indices.ParseKind(idx.Name)
		if err != nil {
			return nil, err
		}
		calc, err := indices.New(kind, table, opts...)
		if err != nil {
			return nil, err
		}

		for _, name := range idx.Frequencies {
			freq, err := indices.ParseFrequency(name)
			if err != nil {
				return nil, err
			}

			start := time.Now()
			rt, err := calc.Compute(freq)
			a.metrics.ObserveCompute(string(kind), string(freq), time.Since(start), err)
			if err != nil {
				a.logger.Warnw("skipping index", "index", kind, "frequency", freq, "error", err)
				continue
			}
			a.recordLatest(rt)
			rep.Tables = append(rep.Tables, rt)
		}
	}

	rep.Comparison, err = compareIfPresent(rep.Tables)
	if err != nil {
		return nil, err
	}
	if rep.Comparison != nil {
		a.logger.Infow("compared MCZI with CZI", "periods", len(rep.Comparison.Rows), "agreement", rep.Comparison.AgreementRate())
	}
	return rep, nil
}

func (a *App) calculatorOptions(table indices.Table) ([]indices.Option, string, error) {
	est, err := moisture.NewEstimator(a.cfg.PET.Method, a.cfg.PET.Fraction, a.cfg.Station.Latitude)
	if err != nil {
		return nil, "", err
	}
	if est == nil {
		s, err := table.Series()
		if err != nil {
			return nil, "", err
		}
		est = moisture.Default(s)
	}
	return []indices.Option{indices.WithEstimator(est)}, est.Name(), nil
}

func (a *App) recordLatest(rt *indices.ResultTable) {
	for i := len(rt.Results) - 1; i >= 0; i-- {
		if v := rt.Results[i].Value; !math.IsNaN(v) {
			a.metrics.LatestValue.WithLabelValues(string(rt.Kind), string(rt.Frequency)).Set(v)
			return
		}
	}
}

func compareIfPresent(tables []*indices.ResultTable) (*indices.Comparison, error) {
	var czi, mczi *indices.ResultTable
	for _, rt := range tables {
		if rt.Frequency != indices.Monthly {
			continue
		}
		switch rt.Kind {
		case indices.CZI:
			czi = rt
		case indices.MCZI:
			mczi = rt
		}
	}
	if czi == nil || mczi == nil {
		return nil, nil
	}
	return indices.CompareTables(mczi, czi)
}

// Run computes, reports, stores and exports the configured indices. With a
// REST section it then serves the loaded records until a shutdown signal or
// the context ends.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rep, err := a.Compute(ctx)
	if err != nil {
		return err
	}
	if err := a.writeReport(rep); err != nil {
		return err
	}
	if err := a.export(rep); err != nil {
		return err
	}

	var results *store.SQLiteStore
	if a.cfg.Storage.SQLitePath != "" {
		results, err = store.NewSQLiteStore(a.cfg.Storage.SQLitePath, a.clock, a.logger.Named("store"))
		if err != nil {
			return err
		}
		defer results.Close()

		if _, err := results.SaveRun(ctx, a.cfg.Station.Name, rep.Tables...); err != nil {
			return fmt.Errorf("storing results: %w", err)
		}
		a.metrics.StoredRuns.Inc()
	}

	if a.cfg.REST == nil {
		return nil
	}

	data := restserver.Dataset{
		Station:  a.cfg.Station.Name,
		Table:    rep.Table,
		Options:  rep.options,
		Metrics:  a.metrics,
		Gatherer: a.registry,
	}
	if results != nil {
		data.Store = results
	}

	ctrl, err := restserver.NewController(ctx, &wg, *a.cfg.REST, data, a.logger.Named("rest"))
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}
	a.logger.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	cancel()

	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) export(rep *Report) error {
	if a.exportDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.exportDir, 0o755); err != nil {
		return err
	}
	for _, rt := range rep.Tables {
		name := fmt.Sprintf("%s_%s.csv", strings.ToLower(string(rt.Kind)), rt.Frequency)
		if err := export.WriteTableFile(filepath.Join(a.exportDir, name), rt); err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
	}
	if rep.Comparison != nil {
		f, err := os.Create(filepath.Join(a.exportDir, "mczi_vs_czi.csv"))
		if err != nil {
			return err
		}
		if err := export.WriteComparison(f, rep.Comparison); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	a.logger.Infow("exported tables", "dir", a.exportDir, "tables", len(rep.Tables))
	return nil
}

func (a *App) writeReport(rep *Report) error {
	w := a.out
	fmt.Fprintf(w, "Station %s: %d months, PET estimator %s\n", a.cfg.Station.Name, rep.Table.Len(), rep.Estimator)

	for _, rt := range rep.Tables {
		s := indices.Summarize(rt)
		fmt.Fprintf(w, "\n%s (%s): %d periods, %d defined\n", rt.Kind, rt.Frequency, s.Periods, s.Defined)
		if s.Defined > 0 {
			fmt.Fprintf(w, "  mean %.3f  min %.3f  max %.3f  std %.3f\n", s.Mean, s.Min, s.Max, s.StdDev)
		}
		for _, c := range s.Categories() {
			if n := s.ClassCounts[c]; n > 0 {
				fmt.Fprintf(w, "  %-17s %4d  %5.1f%%\n", c, n, s.Percent(c))
			}
		}

		fmt.Fprintf(w, "  Drought periods: %d, severe or extreme: %d\n", s.DroughtPeriods, len(s.SevereDrought))
		for _, r := range s.SevereDrought {
			fmt.Fprintf(w, "    %s  %.3f  %s\n", r.Period, r.Value, r.Class)
		}

		if a.plot {
			fmt.Fprintln(w)
			fmt.Fprintln(w, chart.RenderTable(rt, 72, 10))
		}
	}

	if rep.Comparison != nil {
		fmt.Fprintf(w, "\nMCZI vs CZI class agreement: %.1f%%\n", 100*rep.Comparison.AgreementRate())
		if a.plot {
			fmt.Fprintln(w, chart.RenderComparison(rep.Comparison, 72, 10))
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
