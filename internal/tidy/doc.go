// Package tidy extracts clang-tidy warnings from raw build logs.
//
// Each log line is normalized (terminal escapes and surrounding whitespace
// removed), cheaply pre-filtered on the literal "warning:", and matched
// against the diagnostic grammar
//
//	<file>:<line>:<col>: warning: <message> [<check>]
//
// Matching paths are shortened to repository-relative form and the results
// are collected in a [Set], which collapses repeated diagnostics (the same
// header is often analyzed from several translation units). [GroupBy] builds
// the per-file and per-check views the report writers render.
//
// Lines that do not match are skipped silently; only failing to open or read
// the log is an error.
package tidy
