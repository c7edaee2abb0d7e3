// Package metrics exposes Prometheus instrumentation for the pool,
// circuit breaker, and retry layers, using the gauge/counter shapes
// other pooled-resource libraries expose.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups every metric this driver publishes, so a host
// application can register them once against its own
// prometheus.Registerer.
type Registry struct {
	PoolSize       *prometheus.GaugeVec
	PoolIdle       *prometheus.GaugeVec
	CircuitState   *prometheus.GaugeVec
	RetryAttempts  *prometheus.CounterVec
	ConnectFailure *prometheus.CounterVec
}

// NewRegistry constructs a Registry. Metrics are created but not yet
// registered with any prometheus.Registerer; call Register to do that.
func NewRegistry() *Registry {
	return &Registry{
		PoolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neobolt",
			Subsystem: "pool",
			Name:      "connections",
			Help:      "Number of connections currently held by the pool.",
		}, []string{"endpoint"}),
		PoolIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neobolt",
			Subsystem: "pool",
			Name:      "idle_connections",
			Help:      "Number of idle connections currently parked in the pool.",
		}, []string{"endpoint"}),
		CircuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neobolt",
			Subsystem: "circuit",
			Name:      "state",
			Help:      "Circuit breaker state per endpoint (0=closed, 1=half-open, 2=open).",
		}, []string{"endpoint"}),
		RetryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neobolt",
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Number of retry attempts made by with_retry, by outcome.",
		}, []string{"outcome"}),
		ConnectFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neobolt",
			Subsystem: "connect",
			Name:      "failures_total",
			Help:      "Number of failed connection attempts, by error kind.",
		}, []string{"kind"}),
	}
}

// Register adds every metric in the registry to reg.
func (r *Registry) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.PoolSize, r.PoolIdle, r.CircuitState, r.RetryAttempts, r.ConnectFailure} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// CircuitStateValue maps a circuit breaker state name to the numeric
// gauge value CircuitState publishes.
func CircuitStateValue(name string) float64 {
	switch name {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
