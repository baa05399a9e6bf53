// Package server exposes the localhost control API. The enforcement
// point posts URLs (and optionally page metadata) to get verdicts, the
// CLI drives session lifecycle and feedback through it, and Prometheus
// scrapes /metrics. The server binds to loopback by default and speaks
// an internal JSON format with no stability guarantees.
package server
