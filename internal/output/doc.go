// Package output renders warning reports for people and machines.
//
// Five formats are supported:
//   - markdown: the default; a title line plus two collapsible sections
//     (by file, by check), each with a count summary table and row-capped
//     detail blocks
//   - text: a short colored terminal summary
//   - json: the full structured report
//   - sarif: SARIF v2.1.0 for code-scanning upload
//   - html: the markdown report rendered to a standalone page
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*tidy.Report]. [WriteReport]
// handles destination selection and replaces files atomically.
package output
