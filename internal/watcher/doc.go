// Package watcher analyses presets dropped into the inbox directory.
//
// A Watcher holds an exclusive lock file in the data directory so only one
// instance processes the inbox at a time. Create and write events are
// debounced per path; once a file has been quiet for the debounce window it
// is handed to the analyzer, which stores and exports the result exactly as
// the analyze command would.
package watcher
