// Package logging assembles structured slog loggers and formatting helpers used
// across rackscope.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so the analyzer, watcher, and API
// server can tag log lines with analysis and correlation IDs. The package also
// provides a no-op logger for tests and for the decoder when no logger is set.
package logging
