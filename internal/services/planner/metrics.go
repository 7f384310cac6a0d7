package planner

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are registered on a private registry so several services can
// live in one process (and in one test binary).
type Metrics struct {
	registry *prometheus.Registry

	computed  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	fallbacks prometheus.Counter
	inlet     *prometheus.HistogramVec
	duration  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		computed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dripplan",
			Name:      "plans_computed_total",
			Help:      "Scenarios computed, by mode.",
		}, []string{"mode"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dripplan",
			Name:      "plans_rejected_total",
			Help:      "Requests rejected before reaching the engine, by front end.",
		}, []string{"source"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dripplan",
			Name:      "catalog_fallbacks_total",
			Help:      "Plans whose bore came from the nominal ratio instead of the catalog.",
		}),
		inlet: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dripplan",
			Name:      "required_inlet_pressure_bar",
			Help:      "Required inlet pressure of computed plans.",
			Buckets:   []float64{1.15, 1.2, 1.3, 1.5, 2, 3, 5},
		}, []string{"mode"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dripplan",
			Name:      "compute_duration_seconds",
			Help:      "Engine run time.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.computed, m.rejected, m.fallbacks, m.inlet, m.duration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
