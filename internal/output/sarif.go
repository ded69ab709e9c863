package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dshills/tidyreport/internal/tidy"
)

// SARIFWriter outputs warnings in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *tidy.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	HelpURI          string             `json:"helpUri,omitempty"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

func buildSARIF(report *tidy.Report) sarifLog {
	// Rules in check-name order so repeated runs produce identical files.
	var checks []string
	seen := make(map[string]bool)
	for _, w := range report.Warnings {
		if !seen[w.Check] {
			seen[w.Check] = true
			checks = append(checks, w.Check)
		}
	}
	sort.Strings(checks)

	rules := make([]sarifRule, len(checks))
	ruleIndex := make(map[string]int, len(checks))
	for i, check := range checks {
		ruleIndex[check] = i
		rules[i] = sarifRule{
			ID:               check,
			Name:             check,
			ShortDescription: sarifMessage{Text: check},
			HelpURI:          checkDocURL(check),
			DefaultConfig:    sarifDefaultConfig{Level: "warning"},
		}
	}

	results := make([]sarifResult, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		results = append(results, sarifResult{
			RuleID:    w.Check,
			RuleIndex: ruleIndex[w.Check],
			Level:     "warning",
			Message:   sarifMessage{Text: w.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: w.File},
					Region: sarifRegion{
						StartLine:   w.Line,
						StartColumn: w.Column,
					},
				},
			}},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           report.Tool,
						Version:        report.Version,
						InformationURI: "https://clang.llvm.org/extra/clang-tidy/",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// checkDocURL returns the clang-tidy documentation page for a check, or ""
// for compiler diagnostics and aliased multi-check names.
func checkDocURL(check string) string {
	if strings.Contains(check, ",") || strings.HasPrefix(check, "clang-diagnostic-") {
		return ""
	}
	group, name := "", ""
	if rest, ok := strings.CutPrefix(check, "clang-analyzer-"); ok {
		group, name = "clang-analyzer", rest
	} else {
		var ok bool
		group, name, ok = strings.Cut(check, "-")
		if !ok {
			return ""
		}
	}
	if group == "" || name == "" {
		return ""
	}
	return "https://clang.llvm.org/extra/clang-tidy/checks/" + group + "/" + name + ".html"
}
