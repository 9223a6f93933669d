package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveCompute("MCZI", "monthly", 2*time.Millisecond, nil)
	m.ObserveCompute("MCZI", "monthly", time.Millisecond, nil)
	m.ObserveCompute("CI", "seasonal", time.Millisecond, errors.New("unsupported"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Computations.WithLabelValues("MCZI", "monthly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputeErrors.WithLabelValues("CI", "seasonal")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Computations.WithLabelValues("CI", "seasonal")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "droughtindex_compute_duration_seconds")
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
