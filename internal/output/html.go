package output

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dshills/tidyreport/internal/tidy"
)

// HTMLWriter renders the markdown report to a standalone HTML page.
type HTMLWriter struct {
	MaxRows int
}

func (h *HTMLWriter) Write(w io.Writer, report *tidy.Report) error {
	var md bytes.Buffer
	if err := (&MarkdownWriter{MaxRows: h.MaxRows, text: entityReplacer.Replace}).Write(&md, report); err != nil {
		return err
	}

	// Unsafe keeps the <details>/<summary> blocks the report is built from.
	conv := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}

	ew := &errWriter{w: w}
	ew.printf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	ew.printf("<title>%s report</title>\n</head>\n<body>\n", html.EscapeString(report.Tool))
	if ew.err == nil {
		_, ew.err = w.Write(body.Bytes())
	}
	ew.printf("</body>\n</html>\n")
	return ew.err
}

// entityReplacer escapes the free text the markdown places outside code
// spans, so diagnostics like "#include <vector>" or a generated file named
// "<stdin>" are not passed through as HTML tags.
var entityReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
