package tidy

import (
	"regexp"
	"strings"
)

// ansiRe matches CSI sequences (ESC [ params intermediates final) and the
// two-byte Fe escapes (ESC followed by one of @-Z, \, ], ^, _).
var ansiRe = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// Normalize strips terminal escape sequences and surrounding whitespace from
// a raw log line. Interior whitespace and case are left alone, and bytes that
// only look like the start of an escape are kept as-is.
func Normalize(line string) string {
	if strings.IndexByte(line, 0x1b) >= 0 {
		line = ansiRe.ReplaceAllString(line, "")
	}
	return strings.TrimSpace(line)
}
