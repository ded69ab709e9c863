package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/tidyreport/internal/tidy"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *tidy.Report) error
}

// Options tune the writers that need more than the report itself.
type Options struct {
	// MaxRows caps the rows of each detail block; <= 0 means DefaultMaxRows.
	MaxRows int
	// Color enables ANSI colors in the text format.
	Color bool
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"markdown", "text", "json", "sarif", "html"}
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, opts Options) (Writer, error) {
	switch format {
	case "markdown", "md", "":
		return &MarkdownWriter{MaxRows: opts.MaxRows}, nil
	case "text":
		return &TextWriter{Color: opts.Color}, nil
	case "json":
		return &JSONWriter{}, nil
	case "sarif":
		return &SARIFWriter{}, nil
	case "html":
		return &HTMLWriter{MaxRows: opts.MaxRows}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport renders the report and writes it to outPath, or to stdout when
// outPath is empty. Files are replaced atomically, so a concurrent reader
// sees either the previous content or the complete new report.
func WriteReport(report *tidy.Report, format, outPath string, opts Options) error {
	writer, err := GetWriter(format, opts)
	if err != nil {
		return err
	}

	if outPath == "" {
		return writer.Write(os.Stdout, report)
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, report); err != nil {
		return fmt.Errorf("rendering %s report: %w", format, err)
	}
	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("writing report %s: %w", outPath, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing output file: %w", err)
	}
	return nil
}
