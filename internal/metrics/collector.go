// Package metrics exposes Prometheus instrumentation for the catalog: cache
// effectiveness per cache kind, object store call outcomes and latency, and
// how often lookups degrade to the not-found placeholder.
//
// A nil *Collector is valid and records nothing, so the catalog can be built
// without metrics in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "lorelink"

// Collector owns a private Prometheus registry and the lorelink metric vectors.
type Collector struct {
	registry *prometheus.Registry

	cacheLookups *prometheus.CounterVec
	storeCalls   *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	placeholders *prometheus.CounterVec
}

// NewCollector creates the metric vectors and registers them, together with
// the Go runtime and process collectors, on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by provider, cache kind and result (hit or miss).",
		}, []string{"provider", "kind", "result"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "calls_total",
			Help:      "Object store calls by provider, operation and outcome.",
		}, []string{"provider", "op", "outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "call_duration_seconds",
			Help:      "Object store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "op"}),
		placeholders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "placeholders_total",
			Help:      "Content lookups answered with the not-found placeholder, by reason.",
		}, []string{"provider", "reason"}),
	}

	c.registry.MustRegister(
		c.cacheLookups,
		c.storeCalls,
		c.storeLatency,
		c.placeholders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// CacheHit counts a cache hit for kind.
func (c *Collector) CacheHit(provider, kind string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(provider, kind, "hit").Inc()
}

// CacheMiss counts a cache miss for kind.
func (c *Collector) CacheMiss(provider, kind string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(provider, kind, "miss").Inc()
}

// ObserveStoreCall records one store call. outcome is "ok" on success and the
// error kind (e.g. "not_found", "timeout") otherwise.
func (c *Collector) ObserveStoreCall(provider, op, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.storeCalls.WithLabelValues(provider, op, outcome).Inc()
	c.storeLatency.WithLabelValues(provider, op).Observe(elapsed.Seconds())
}

// Placeholder counts a content lookup that degraded to the placeholder record.
func (c *Collector) Placeholder(provider, reason string) {
	if c == nil {
		return
	}
	c.placeholders.WithLabelValues(provider, reason).Inc()
}
