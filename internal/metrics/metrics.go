// Package metrics exposes Prometheus instruments for report computation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "groupledger"

// Metrics holds the report instruments. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	computations      *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	consistencyErrors prometheus.Counter
	cacheEvictions    prometheus.Counter
}

// New creates the instruments on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_computations_total",
			Help:      "Reports computed from a ledger snapshot, by kind.",
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_lookups_total",
			Help:      "Report cache lookups, by result (hit, miss, stale).",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_compute_duration_seconds",
			Help:      "Time spent computing reports, by kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"kind"}),
		consistencyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_consistency_failures_total",
			Help:      "Snapshots whose stored expenses failed to re-split or balance.",
		}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_expired_total",
			Help:      "Expired report cache entries swept from memory.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.computations,
		m.cacheLookups,
		m.duration,
		m.consistencyErrors,
		m.cacheEvictions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveComputation records one computed report of the given kind.
func (m *Metrics) ObserveComputation(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(kind).Inc()
	m.duration.WithLabelValues(kind).Observe(seconds)
}

// CacheLookup records a cache lookup result: hit, miss or stale.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ConsistencyFailure records a snapshot that failed the ledger invariants.
func (m *Metrics) ConsistencyFailure() {
	if m == nil {
		return
	}
	m.consistencyErrors.Inc()
}

// CacheExpired records entries removed by a cache sweep.
func (m *Metrics) CacheExpired(n int) {
	if m == nil {
		return
	}
	m.cacheEvictions.Add(float64(n))
}
