package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"anchorite-hq/anchorite/pkg/config"
)

// Collector owns every Prometheus metric Anchorite exposes and provides a
// unified recording interface for the decision engine, cache and session
// supervisor. All recording methods are no-ops when metrics are disabled,
// so callers never need to guard their calls.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	decision *DecisionMetrics
	cache    *CacheMetrics
	session  *SessionMetrics
}

// NewCollector creates a metrics collector with the given configuration and
// registry. A nil registry creates a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "anchorite"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "core"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.decision = NewDecisionMetrics(cfg, registry)
	c.cache = NewCacheMetrics(cfg, registry)
	c.session = NewSessionMetrics(cfg, registry)

	return c
}

// RecordDecision records an admission verdict.
// path is "fast" or "slow"; verdict is "allow" or "block".
func (c *Collector) RecordDecision(path, verdict, tier string) {
	if !c.config.Enabled {
		return
	}
	c.decision.RecordDecision(path, verdict, tier)
}

// RecordConfidence records a classifier confidence score.
func (c *Collector) RecordConfidence(confidence float64) {
	if !c.config.Enabled {
		return
	}
	c.decision.RecordConfidence(confidence)
}

// RecordFeedback records a feedback submission.
func (c *Collector) RecordFeedback(correct bool) {
	if !c.config.Enabled {
		return
	}
	c.decision.RecordFeedback(correct)
}

// RecordCacheHit records a verdict cache hit.
func (c *Collector) RecordCacheHit() {
	if !c.config.Enabled {
		return
	}
	c.cache.RecordHit()
}

// RecordCacheMiss records a verdict cache miss.
func (c *Collector) RecordCacheMiss() {
	if !c.config.Enabled {
		return
	}
	c.cache.RecordMiss()
}

// UpdateCacheSize updates the current cache entry count.
func (c *Collector) UpdateCacheSize(size int) {
	if !c.config.Enabled {
		return
	}
	c.cache.UpdateSize(size)
}

// UpdateSessionActive sets the active-session gauge (1 active, 0 idle).
func (c *Collector) UpdateSessionActive(active bool) {
	if !c.config.Enabled {
		return
	}
	c.session.UpdateActive(active)
}

// RecordSessionStart records a session start.
func (c *Collector) RecordSessionStart() {
	if !c.config.Enabled {
		return
	}
	c.session.RecordStart()
}

// RecordSessionEnd records a session end with its outcome
// ("completed", "unlocked", "emergency_terminated").
func (c *Collector) RecordSessionEnd(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.session.RecordEnd(outcome)
}

// RecordProxyRestart records an enforcement-process restart attempt.
func (c *Collector) RecordProxyRestart(success bool) {
	if !c.config.Enabled {
		return
	}
	c.session.RecordRestart(success)
}

// Registry returns the Prometheus registry backing this collector, for use
// with promhttp handlers.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
