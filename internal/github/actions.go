package github

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/tidyreport/internal/tidy"
)

// OutputKey names one of the scalar outputs a run publishes.
type OutputKey string

const (
	// KeyTotalWarnings carries the distinct warning count.
	KeyTotalWarnings OutputKey = "TOTAL_WARNINGS"
	// KeyReportPath carries the absolute path of the written report.
	KeyReportPath OutputKey = "REPORT_PATH"
)

// Output is one key=value pair.
type Output struct {
	Key   OutputKey
	Value string
}

// Outputs returns the run outputs in their fixed publication order.
func Outputs(total int, reportPath string) []Output {
	return []Output{
		{Key: KeyTotalWarnings, Value: strconv.Itoa(total)},
		{Key: KeyReportPath, Value: reportPath},
	}
}

// WriteOutputs writes each output as a KEY=value line.
func WriteOutputs(w io.Writer, outputs []Output) error {
	for _, o := range outputs {
		if strings.ContainsAny(o.Value, "\r\n") {
			return fmt.Errorf("output %s contains a line break", o.Key)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", o.Key, o.Value); err != nil {
			return err
		}
	}
	return nil
}

// AppendOutputFile appends outputs to the file named by GITHUB_OUTPUT.
// It reports false without error when the variable is unset.
func AppendOutputFile(outputs []Output) (bool, error) {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return false, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening GITHUB_OUTPUT: %w", err)
	}
	if err := WriteOutputs(f, outputs); err != nil {
		f.Close()
		return false, fmt.Errorf("writing GITHUB_OUTPUT: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing GITHUB_OUTPUT: %w", err)
	}
	return true, nil
}

// AppendStepSummary appends content to the job summary named by
// GITHUB_STEP_SUMMARY. It reports false without error when the variable is
// unset.
func AppendStepSummary(content []byte) (bool, error) {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return false, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening GITHUB_STEP_SUMMARY: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return false, fmt.Errorf("writing GITHUB_STEP_SUMMARY: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing GITHUB_STEP_SUMMARY: %w", err)
	}
	return true, nil
}

// WriteAnnotations emits up to limit workflow commands of the form
// ::warning file=F,line=L,col=C,title=CHECK::MESSAGE. It returns the number
// written. A limit of 0 writes nothing.
func WriteAnnotations(w io.Writer, warnings []tidy.Warning, limit int) (int, error) {
	n := 0
	for _, wa := range warnings {
		if n >= limit {
			break
		}
		_, err := fmt.Fprintf(w, "::warning file=%s,line=%d,col=%d,title=%s::%s\n",
			escapeProperty(wa.File), wa.Line, wa.Column,
			escapeProperty(wa.Check), escapeData(wa.Message))
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

var (
	dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propEscaper.Replace(s) }
