// Package observe provides optional gate observers: a Prometheus
// collector and a slog reporter for declaration and construction events.
package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoCodeAlone/contract/gate"
)

// Metrics wraps Prometheus metrics for the contract engine. It owns its
// own prometheus.Registry and implements gate.Observer.
type Metrics struct {
	registry *prometheus.Registry

	Validations     *prometheus.CounterVec
	Constructions   *prometheus.CounterVec
	RegisteredTypes prometheus.Gauge
}

// NewMetrics creates a Metrics collector under the given namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of implementation validations",
		}, []string{"interface", "outcome"}),
		Constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constructions_total",
			Help:      "Total number of construction attempts",
		}, []string{"implementation", "outcome"}),
		RegisteredTypes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_types",
			Help:      "Number of implementing types registered with the gate",
		}),
	}

	reg.MustRegister(m.Validations)
	reg.MustRegister(m.Constructions)
	reg.MustRegister(m.RegisteredTypes)
	return m
}

// Handler returns an HTTP handler serving the collector's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ValidationDone implements gate.Observer.
func (m *Metrics) ValidationDone(rec *gate.Record) {
	outcome := "valid"
	if rec.State == gate.Invalid {
		outcome = "invalid"
	} else if !rec.Usable() {
		outcome = "abstract"
	}
	m.Validations.WithLabelValues(rec.Interface, outcome).Inc()
	m.RegisteredTypes.Inc()
}

// ConstructionDone implements gate.Observer.
func (m *Metrics) ConstructionDone(implementation string) {
	m.Constructions.WithLabelValues(implementation, "ok").Inc()
}

// ConstructionRefused implements gate.Observer.
func (m *Metrics) ConstructionRefused(implementation string, _ []string) {
	m.Constructions.WithLabelValues(implementation, "refused").Inc()
}
