// Tidyreport digests clang-tidy build logs into navigable reports.
//
// It extracts every "file:line:col: warning: message [check]" diagnostic from
// a build log, collapses duplicates, and writes a markdown report grouped by
// source file and by check, then prints TOTAL_WARNINGS and REPORT_PATH for
// the calling CI step.
//
// Usage:
//
//	tidyreport report -l build.log                      # write clang_tidy_report.md
//	tidyreport report -l build.log -o report.md         # choose the report path
//	tidyreport report -l build.log --format sarif -o tidy.sarif
//	tidyreport report -l build.log --step-summary --annotations 50
//	tidyreport config init                              # create a config file
//
// Exit codes: 0 success, 1 warning threshold reached, 2 usage error,
// 3 unreadable build log, 4 report could not be written.
package main
