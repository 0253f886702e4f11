// Package analyzer runs the full analysis pipeline for preset files:
// size check, content hashing, decoding, artifact export, and library
// storage.
//
// The Service is shared by the CLI, the inbox watcher, and the HTTP API so
// every entry point applies the same limits and deduplication. Unchanged
// content (same SHA-256) returns the archived analysis unless Force is set.
package analyzer
