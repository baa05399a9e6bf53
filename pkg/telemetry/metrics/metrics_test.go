package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"anchorite-hq/anchorite/pkg/config"
)

func enabledConfig() config.MetricsConfig {
	return config.MetricsConfig{Enabled: true, Namespace: "anchorite", Subsystem: "core"}
}

func TestRecordDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(enabledConfig(), registry)

	c.RecordDecision("fast", "block", "shortform")
	c.RecordDecision("fast", "allow", "educational")
	c.RecordDecision("slow", "allow", "classifier")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() == "anchorite_core_decisions_total" {
			found = true
			if len(fam.GetMetric()) != 3 {
				t.Errorf("expected 3 label combinations, got %d", len(fam.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("decisions_total metric not registered")
	}
}

func TestDisabledCollectorIsNoOp(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(config.MetricsConfig{Enabled: false}, registry)

	c.RecordDecision("fast", "allow", "default")
	c.RecordCacheHit()
	c.RecordSessionStart()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			if m.GetCounter() != nil && m.GetCounter().GetValue() != 0 {
				t.Errorf("metric %s recorded while disabled", fam.GetName())
			}
		}
	}
}

func TestCacheMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(enabledConfig(), registry)

	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.UpdateCacheSize(7)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "anchorite_core_cache_hits_total 2") {
		t.Errorf("cache hits not exposed:\n%s", body)
	}
	if !strings.Contains(body, "anchorite_core_cache_entries 7") {
		t.Errorf("cache size gauge not exposed:\n%s", body)
	}
}

func TestSessionMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(enabledConfig(), registry)

	c.RecordSessionStart()
	c.UpdateSessionActive(true)
	c.RecordProxyRestart(false)
	c.RecordSessionEnd("unlocked")
	c.UpdateSessionActive(false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "anchorite_core_session_active 0") {
		t.Errorf("session gauge not exposed:\n%s", body)
	}
	if !strings.Contains(body, `anchorite_core_sessions_ended_total{outcome="unlocked"} 1`) {
		t.Errorf("session end counter not exposed:\n%s", body)
	}
	if !strings.Contains(body, `anchorite_core_proxy_restarts_total{result="failure"} 1`) {
		t.Errorf("restart counter not exposed:\n%s", body)
	}
}
