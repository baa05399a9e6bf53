// Package telemetry groups Anchorite's observability concerns.
//
//   - logging: structured slog setup from configuration
//   - metrics: Prometheus metric collection and the /metrics handler
//
// Both are wired in by the daemon at startup; library packages accept a
// *metrics.Collector (possibly nil) rather than reaching for globals.
package telemetry
