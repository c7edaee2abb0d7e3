package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAddsEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry()
	require.NoError(t, r.Register(reg))

	// A vector with no label values set has no child metric and gathers
	// no family, so give each one a child first.
	r.PoolSize.WithLabelValues("localhost:7687")
	r.PoolIdle.WithLabelValues("localhost:7687")
	r.CircuitState.WithLabelValues("localhost:7687")
	r.RetryAttempts.WithLabelValues("success")
	r.ConnectFailure.WithLabelValues("Connection")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"neobolt_pool_connections",
		"neobolt_pool_idle_connections",
		"neobolt_circuit_state",
		"neobolt_retry_attempts_total",
		"neobolt_connect_failures_total",
	} {
		assert.True(t, names[want], "missing metric family %s", want)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry()
	require.NoError(t, r.Register(reg))

	r2 := NewRegistry()
	err := r2.Register(reg)
	require.Error(t, err)
}

func TestCircuitStateValue(t *testing.T) {
	assert.Equal(t, float64(0), CircuitStateValue("closed"))
	assert.Equal(t, float64(1), CircuitStateValue("half-open"))
	assert.Equal(t, float64(2), CircuitStateValue("open"))
	assert.Equal(t, float64(-1), CircuitStateValue("bogus"))
}

func TestCircuitStateGaugeReflectsValue(t *testing.T) {
	r := NewRegistry()
	r.CircuitState.WithLabelValues("localhost:7687").Set(CircuitStateValue("open"))

	metric := &dto.Metric{}
	require.NoError(t, r.CircuitState.WithLabelValues("localhost:7687").Write(metric))
	assert.Equal(t, float64(2), metric.GetGauge().GetValue())
}
