// Package config loads, normalizes, and validates rackscope configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RACKSCOPE_DATA_DIR. The Config type centralizes every knob the CLI, watcher,
// and HTTP API need so the data, export, and inbox directories are resolved in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
