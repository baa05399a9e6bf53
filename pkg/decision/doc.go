// Package decision is the admission decision engine. It combines four
// stages into two pipelines: a fast path (short-form check, cache, rule
// tiers) that never blocks, and a slow path that additionally extracts
// features from page metadata and runs the classifier when the rules
// leave a URL undecided.
//
// The engine fails open by construction: unknown domains allow, fetch
// and store failures degrade with a log line, and a missing weights file
// leaves the rule tiers fully in force.
package decision
