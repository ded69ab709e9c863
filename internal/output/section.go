package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/tidyreport/internal/tidy"
)

type groupOrder int

const (
	orderByKey groupOrder = iota
	orderByCount
)

// section describes one collapsible view of the report. Both views share
// writeSection and differ only in these fields.
type section struct {
	title     string
	keyColumn string
	text      func(string) string
	key       tidy.KeyFunc
	order     groupOrder
	less      func(a, b tidy.Warning) bool
	header    string
	row       func(tidy.Warning) string
}

// writeSection renders the summary table and the per-group detail blocks.
// The summary is always ordered by count descending; detail blocks follow
// s.order. Each block is cut at maxRows after sorting, so the omitted rows
// are the ones that sort last.
func writeSection(ew *errWriter, s section, warnings []tidy.Warning, maxRows int) {
	groups := tidy.GroupBy(warnings, s.key)

	ew.printf("<details><summary><b>%s</b><i> - Click to expand </i></summary>\n\n", s.title)

	summary := make([]tidy.Group, len(groups))
	copy(summary, groups)
	tidy.SortByCount(summary)

	ew.printf("#### Summary\n\n")
	ew.printf("| %s | Count |\n|---|---|\n", s.keyColumn)
	for _, g := range summary {
		ew.printf("| %s | %d |\n", cell(s.text(g.Key)), g.Count())
	}
	ew.printf("\n")

	switch s.order {
	case orderByCount:
		tidy.SortByCount(groups)
	default:
		tidy.SortByKey(groups)
	}

	ew.printf("#### Details\n\n")
	for _, g := range groups {
		ew.printf("\n----\n\n**%s** (%d warnings)\n\n%s\n", cell(s.text(g.Key)), g.Count(), s.header)

		items := make([]tidy.Warning, len(g.Items))
		copy(items, g.Items)
		sort.SliceStable(items, func(i, j int) bool {
			return s.less(items[i], items[j])
		})

		for i, w := range items {
			if i >= maxRows {
				ew.printf("| ... | ... | *%d more omitted...* |\n", len(items)-i)
				break
			}
			ew.println(s.row(w))
		}
		ew.printf("\n")
	}
	ew.printf("</details>\n\n")
}

// cell escapes text for use inside a pipe table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// code wraps s in an inline code span, widening the fence when s itself
// contains backticks.
func code(s string) string {
	s = cell(s)
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
