// Package config loads, validates, and normalizes clipalign configuration
// from TOML files.
package config
