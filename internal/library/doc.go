// Package library archives decoded rack documents in SQLite.
//
// Each analysis row keeps the summary counts used by listings next to the
// full document JSON, keyed by a UUID and indexed by the SHA-256 of the
// preset bytes so unchanged files can be recognised. Schema changes bump
// schemaVersion in schema.go; an older database must be deleted to adopt the
// new layout.
package library
