// Package features turns (URL, mission, optional page metadata) into the
// fixed-length numeric vector the classifier scores.
//
// The vector layout is frozen at Version: three 384-dim lexical blocks
// (URL, mission, content), a 15-dim URL-structural block, a 16-dim
// content-derived block and a 4-dim temporal block, Dim entries in total.
// All pseudo-text features hash with xxhash under a fixed prefix, so
// identical inputs yield identical vectors on every platform. Extraction
// never returns an error: missing metadata is neutral, malformed URLs
// degrade to unknown-domain features.
package features
