package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"anchorite-hq/anchorite/pkg/config"
)

// DecisionMetrics tracks admission verdicts, classifier confidence and
// feedback accuracy.
type DecisionMetrics struct {
	decisionsTotal *prometheus.CounterVec
	confidence     prometheus.Histogram
	feedbackTotal  *prometheus.CounterVec
}

// NewDecisionMetrics creates and registers decision metrics.
func NewDecisionMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	m := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total admission decisions by path, verdict and rule tier.",
			},
			[]string{"path", "verdict", "tier"},
		),
		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classifier_confidence",
				Help:      "Classifier confidence distribution for slow-path decisions.",
				Buckets:   prometheus.LinearBuckets(0.0, 0.1, 11),
			},
		),
		feedbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "feedback_total",
				Help:      "Total feedback submissions by correctness.",
			},
			[]string{"correct"},
		),
	}

	registry.MustRegister(m.decisionsTotal, m.confidence, m.feedbackTotal)
	return m
}

// RecordDecision increments the decision counter.
func (m *DecisionMetrics) RecordDecision(path, verdict, tier string) {
	m.decisionsTotal.WithLabelValues(path, verdict, tier).Inc()
}

// RecordConfidence observes a classifier confidence score.
func (m *DecisionMetrics) RecordConfidence(confidence float64) {
	m.confidence.Observe(confidence)
}

// RecordFeedback increments the feedback counter.
func (m *DecisionMetrics) RecordFeedback(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	m.feedbackTotal.WithLabelValues(label).Inc()
}
