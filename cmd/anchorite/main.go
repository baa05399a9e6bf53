// Anchorite is a focus-session enforcement daemon.
//
// It runs an admission decision engine for URLs (rule tiers plus a small
// learned classifier), supervises an enforcement proxy for the lifetime of
// a focus session, and exposes a local control API:
//   - URL admission verdicts, with optional page metadata
//   - Session lifecycle with a split-secret early unlock
//   - Decision feedback for the learning loop
//   - Statistics and Prometheus metrics
//
// Usage:
//
//	# Start the daemon with default configuration
//	anchorite run
//
//	# Start with a custom configuration file
//	anchorite run --config /path/to/config.yaml
//
//	# Start a 90 minute focus session
//	anchorite session start --minutes 90 --task "thesis draft"
//
//	# End a session early with the reassembled secret
//	anchorite session end --secret <secret>
//
//	# Report a wrong verdict
//	anchorite feedback https://example.com/article --incorrect
package main

func main() {
	Execute()
}
