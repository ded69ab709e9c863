// Package cli wires together the Cobra command tree for the tidyreport binary.
//
// It defines the root command and its subcommands (report, config, version),
// binds flags, layers configuration, runs the extractor and writers, and
// returns deterministic exit codes for CI gating.
package cli
