package logging

import (
	"bytes"
	"strings"
	"testing"

	"anchorite-hq/anchorite/pkg/config"
)

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Debug("structured")

	if !strings.Contains(buf.String(), `"msg":"structured"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "trace"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "info", Format: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(config.LoggingConfig{Level: "info", Format: "text"}, &buf); err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	Component("decision.engine").Info("tagged")

	if !strings.Contains(buf.String(), "component=decision.engine") {
		t.Errorf("component attribute missing: %q", buf.String())
	}
}
