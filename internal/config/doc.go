// Package config loads, validates, and normalizes dubforge workspace
// configuration from TOML with sensible defaults for each section.
package config
