// Package config holds crawlmap's run configuration: defaults, CLI
// flag values, validation, and the optional YAML config file with
// per-domain overrides.
package config
