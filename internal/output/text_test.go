package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/tidyreport/internal/tidy"
)

func TestTextWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, reportOf()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No warnings found.") {
		t.Errorf("expected empty message:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colors should be off unless requested")
	}
}

func TestTextWriter_TopGroups(t *testing.T) {
	var ws []tidy.Warning
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			ws = append(ws, tidy.Warning{File: fmt.Sprintf("f%02d.cc", i), Line: j + 1, Column: 1, Message: "m", Check: "c"})
		}
	}

	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, reportOf(ws...)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Warnings: 120 distinct") {
		t.Errorf("missing total:\n%s", out)
	}
	if !strings.Contains(out, "f14.cc") {
		t.Error("largest file should be listed")
	}
	if strings.Contains(out, "f00.cc") {
		t.Error("smallest file should fall outside the top groups")
	}
	if !strings.Contains(out, "… and 5 more") {
		t.Errorf("expected overflow line:\n%s", out)
	}
}

func TestTextWriter_Color(t *testing.T) {
	var buf bytes.Buffer
	report := reportOf(tidy.Warning{File: "a.cc", Line: 1, Column: 1, Message: "m", Check: "c"})
	if err := (&TextWriter{Color: true}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI sequences with Color enabled")
	}
}
