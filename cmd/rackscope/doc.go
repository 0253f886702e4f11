// Package main hosts the rackscope CLI entrypoint and command graph.
//
// Commands decode rack presets on demand (analyze, show), browse and prune
// the analysis library (list, delete), and run the long-lived surfaces: the
// inbox watcher and the HTTP API. Configuration resolution, logger setup,
// and library access are centralized in commandContext so subcommands stay
// focused on presentation.
package main
