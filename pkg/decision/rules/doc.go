// Package rules implements the deterministic tier of the admission
// pipeline: eight ordered rule tiers evaluated first-match-wins over a
// URL, the active mission and optional page text.
//
// Short-form blocks come first and are unconditional, infrastructure and
// curated educational domains allow next, then distraction domains and
// feed patterns block, watch endpoints get a content-alignment check, and
// anything left falls through to a non-terminal default allow that the
// classifier may refine. The tables are data; tier logic never changes
// per deployment.
package rules
