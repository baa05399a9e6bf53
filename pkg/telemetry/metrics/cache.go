package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"anchorite-hq/anchorite/pkg/config"
)

// CacheMetrics tracks verdict cache effectiveness.
type CacheMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	size   prometheus.Gauge
}

// NewCacheMetrics creates and registers cache metrics.
func NewCacheMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	m := &CacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_hits_total",
			Help:      "Total verdict cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_misses_total",
			Help:      "Total verdict cache misses.",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_entries",
			Help:      "Current number of cached verdicts.",
		}),
	}

	registry.MustRegister(m.hits, m.misses, m.size)
	return m
}

// RecordHit increments the hit counter.
func (m *CacheMetrics) RecordHit() { m.hits.Inc() }

// RecordMiss increments the miss counter.
func (m *CacheMetrics) RecordMiss() { m.misses.Inc() }

// UpdateSize sets the entry-count gauge.
func (m *CacheMetrics) UpdateSize(size int) { m.size.Set(float64(size)) }
