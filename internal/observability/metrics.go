// Package observability holds the Prometheus instruments of the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "droughtindex"

// Metrics holds the counters, histograms and gauges of index computation.
type Metrics struct {
	Computations    *prometheus.CounterVec   // labels: index, frequency
	ComputeErrors   *prometheus.CounterVec   // labels: index, frequency
	ComputeDuration *prometheus.HistogramVec // labels: index
	LoadedMonths    prometheus.Gauge
	LatestValue     *prometheus.GaugeVec // labels: index, frequency
	StoredRuns      prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Index tables computed, by index and frequency.",
		}, []string{"index", "frequency"}),
		ComputeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_errors_total",
			Help:      "Failed index computations, by index and frequency.",
		}, []string{"index", "frequency"}),
		ComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Duration of one index computation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"index"}),
		LoadedMonths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_months",
			Help:      "Months in the most recently loaded record table.",
		}),
		LatestValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_value",
			Help:      "Index value of the most recent defined period.",
		}, []string{"index", "frequency"}),
		StoredRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_runs_total",
			Help:      "Runs written to the results store.",
		}),
	}

	reg.MustRegister(
		m.Computations,
		m.ComputeErrors,
		m.ComputeDuration,
		m.LoadedMonths,
		m.LatestValue,
		m.StoredRuns,
	)
	return m
}

// ObserveCompute records one computation attempt.
func (m *Metrics) ObserveCompute(index, frequency string, elapsed time.Duration, err error) {
	m.ComputeDuration.WithLabelValues(index).Observe(elapsed.Seconds())
	if err != nil {
		m.ComputeErrors.WithLabelValues(index, frequency).Inc()
		return
	}
	m.Computations.WithLabelValues(index, frequency).Inc()
}
