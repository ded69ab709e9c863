package output

import (
	"io"

	"github.com/dshills/tidyreport/internal/tidy"
)

// DefaultMaxRows is the per-block row cap when none is configured.
const DefaultMaxRows = 1000

// MarkdownWriter outputs the collapsible GitHub-flavored markdown report.
type MarkdownWriter struct {
	MaxRows int

	// text escapes free text (group keys and messages) before it is
	// placed outside code spans. nil leaves it as is.
	text func(string) string
}

func (m *MarkdownWriter) Write(w io.Writer, report *tidy.Report) error {
	ew := &errWriter{w: w}

	ew.printf("#### `%s` job reported %d warnings\n\n", report.Tool, len(report.Warnings))
	if len(report.Warnings) == 0 {
		return ew.err
	}

	maxRows := m.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	text := m.text
	if text == nil {
		text = func(s string) string { return s }
	}
	for _, s := range reportSections(report.Tool, text) {
		writeSection(ew, s, report.Warnings, maxRows)
	}
	ew.printf("\n----\n")

	return ew.err
}

// reportSections returns the two views of the report: by file, with files in
// path order, and by check, with the noisiest checks first.
func reportSections(tool string, text func(string) string) []section {
	return []section{
		{
			title:     "Warnings by File",
			keyColumn: "File",
			text:      text,
			key:       tidy.ByFile,
			order:     orderByKey,
			less: func(a, b tidy.Warning) bool {
				if a.Line != b.Line {
					return a.Line < b.Line
				}
				return tidy.Compare(a, b) < 0
			},
			header: "| Line | Check | Message |\n|---|---|---|",
			row: func(w tidy.Warning) string {
				return "| " + itoa(w.Line) + " | " + code(w.Check) + " | " + cell(text(w.Message)) + " |"
			},
		},
		{
			title:     "Warnings by " + text(tool) + " Check",
			keyColumn: "Check",
			text:      text,
			key:       tidy.ByCheck,
			order:     orderByCount,
			less: func(a, b tidy.Warning) bool {
				if a.File != b.File {
					return a.File < b.File
				}
				if a.Line != b.Line {
					return a.Line < b.Line
				}
				return tidy.Compare(a, b) < 0
			},
			header: "| File | Line | Message |\n|---|---|---|",
			row: func(w tidy.Warning) string {
				return "| " + code(w.File) + " | " + itoa(w.Line) + " | " + cell(text(w.Message)) + " |"
			},
		},
	}
}
