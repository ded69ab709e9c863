// Package github connects report runs to GitHub.
//
// In Actions it publishes the run outputs ([KeyTotalWarnings],
// [KeyReportPath]) to GITHUB_OUTPUT, appends the report to the job summary
// and emits ::warning workflow commands so diagnostics show up inline on the
// pull request diff. Outside Actions, [Client] posts the rendered report as a
// pull request comment through the REST API.
package github
