package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"anchorite-hq/anchorite/pkg/config"
)

// SessionMetrics tracks session lifecycle and enforcement-process health.
type SessionMetrics struct {
	active        prometheus.Gauge
	startedTotal  prometheus.Counter
	endedTotal    *prometheus.CounterVec
	restartsTotal *prometheus.CounterVec
}

// NewSessionMetrics creates and registers session metrics.
func NewSessionMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *SessionMetrics {
	m := &SessionMetrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "session_active",
			Help:      "Whether a focus session is currently active (1) or not (0).",
		}),
		startedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "sessions_started_total",
			Help:      "Total focus sessions started.",
		}),
		endedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "sessions_ended_total",
			Help:      "Total focus sessions ended by outcome.",
		}, []string{"outcome"}),
		restartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "proxy_restarts_total",
			Help:      "Total enforcement-process restart attempts by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(m.active, m.startedTotal, m.endedTotal, m.restartsTotal)
	return m
}

// UpdateActive sets the active-session gauge.
func (m *SessionMetrics) UpdateActive(active bool) {
	if active {
		m.active.Set(1)
	} else {
		m.active.Set(0)
	}
}

// RecordStart increments the started counter.
func (m *SessionMetrics) RecordStart() { m.startedTotal.Inc() }

// RecordEnd increments the ended counter for an outcome.
func (m *SessionMetrics) RecordEnd(outcome string) {
	m.endedTotal.WithLabelValues(outcome).Inc()
}

// RecordRestart increments the restart counter.
func (m *SessionMetrics) RecordRestart(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.restartsTotal.WithLabelValues(result).Inc()
}
