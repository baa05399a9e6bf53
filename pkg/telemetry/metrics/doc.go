// Package metrics provides Prometheus metrics for the admission decision
// engine, the verdict cache and the session supervisor.
//
// A single Collector owns all metric families under the configured
// namespace/subsystem (anchorite_core_* by default). Recording calls are
// no-ops when metrics are disabled in configuration, so instrumented code
// never branches on the setting.
package metrics
