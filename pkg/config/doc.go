// Package config provides YAML-based configuration for Anchorite with
// defaults, validation and environment variable overrides.
//
// Configuration is loaded in three steps: parse the YAML file, fill missing
// fields with defaults, then apply ANCHORITE_* environment overrides. The
// final configuration is validated before any component consumes it.
package config
