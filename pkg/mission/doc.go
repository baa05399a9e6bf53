// Package mission models the user's declared focus goal: the mission
// document format, keyword derivation for alignment checks, and a file
// watcher for hot reload.
//
// A mission is set once per session and replaced wholesale, never merged.
// Reloading the mission mid-session does not invalidate cached verdicts;
// cached entries survive until their TTL expires.
package mission
