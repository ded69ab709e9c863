package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/tidyreport/internal/tidy"
)

// textTopGroups is how many groups each text summary lists.
const textTopGroups = 10

// textKeyWidth bounds the key column so long paths do not push counts off
// the terminal.
const textKeyWidth = 60

// TextWriter outputs a compact terminal summary: totals plus the largest
// check and file groups.
type TextWriter struct {
	Color bool
}

func (t *TextWriter) Write(w io.Writer, report *tidy.Report) error {
	ew := &errWriter{w: w}

	bold := t.style(color.Bold)
	warn := t.style(color.FgYellow, color.Bold)
	dim := t.style(color.Faint)

	ew.printf("%s %s\n", bold.Sprint(report.Tool+" report"), dim.Sprint(report.Source))
	ew.println(strings.Repeat("─", 60))
	ew.printf("Warnings: %s distinct", warn.Sprint(report.Total))
	ew.printf(" (%d lines scanned, %d matched, %d excluded)\n",
		report.Stats.Lines, report.Stats.Matched, report.Stats.Excluded)
	ew.println(strings.Repeat("─", 60))

	if report.Total == 0 {
		ew.println("\nNo warnings found.")
		return ew.err
	}

	t.writeTop(ew, "By check", tidy.GroupBy(report.Warnings, tidy.ByCheck), bold)
	t.writeTop(ew, "By file", tidy.GroupBy(report.Warnings, tidy.ByFile), bold)

	return ew.err
}

func (t *TextWriter) writeTop(ew *errWriter, title string, groups []tidy.Group, heading *color.Color) {
	tidy.SortByCount(groups)

	shown := groups
	if len(shown) > textTopGroups {
		shown = shown[:textTopGroups]
	}

	width := 0
	for _, g := range shown {
		width = max(width, runewidth.StringWidth(g.Key))
	}
	width = min(width, textKeyWidth)

	ew.printf("\n%s\n", heading.Sprint(title))
	for _, g := range shown {
		key := runewidth.Truncate(g.Key, width, "…")
		ew.printf("  %s  %6d\n", runewidth.FillRight(key, width), g.Count())
	}
	if rest := len(groups) - len(shown); rest > 0 {
		ew.printf("  … and %d more\n", rest)
	}
}

// style returns a color that is disabled unless t.Color is set, so output
// does not depend on the global color.NoColor detection.
func (t *TextWriter) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
