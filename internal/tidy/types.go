package tidy

import "sort"

// Warning is a single structured diagnostic extracted from a log line.
// Two warnings are the same warning when all five fields are equal.
type Warning struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Check   string `json:"check"`
}

// Set is the deduplicated collection of warnings produced by one run.
type Set struct {
	m map[Warning]struct{}
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{m: make(map[Warning]struct{})}
}

// Add inserts w and reports whether it was not already present.
func (s *Set) Add(w Warning) bool {
	if _, ok := s.m[w]; ok {
		return false
	}
	s.m[w] = struct{}{}
	return true
}

// Contains reports whether w is in the set.
func (s *Set) Contains(w Warning) bool {
	_, ok := s.m[w]
	return ok
}

// Len returns the number of distinct warnings.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Merge adds every warning of other to s and returns the number added.
func (s *Set) Merge(other *Set) int {
	if other == nil {
		return 0
	}
	added := 0
	for w := range other.m {
		if s.Add(w) {
			added++
		}
	}
	return added
}

// Sorted returns the warnings ordered by file, line, column, check and message.
func (s *Set) Sorted() []Warning {
	if s == nil {
		return nil
	}
	out := make([]Warning, 0, len(s.m))
	for w := range s.m {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

// Compare orders warnings by file, line, column, check and message.
func Compare(a, b Warning) int {
	switch {
	case a.File != b.File:
		return cmpString(a.File, b.File)
	case a.Line != b.Line:
		return cmpInt(a.Line, b.Line)
	case a.Column != b.Column:
		return cmpInt(a.Column, b.Column)
	case a.Check != b.Check:
		return cmpString(a.Check, b.Check)
	default:
		return cmpString(a.Message, b.Message)
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Stats counts what happened to the log lines during extraction.
type Stats struct {
	Lines      int `json:"lines"`
	Candidates int `json:"candidates"`
	Matched    int `json:"matched"`
	Excluded   int `json:"excluded"`
	Unique     int `json:"unique"`
}

// Add accumulates other into s. Unique is not summed; it is recomputed from
// the merged set by the caller.
func (s *Stats) Add(other Stats) {
	s.Lines += other.Lines
	s.Candidates += other.Candidates
	s.Matched += other.Matched
	s.Excluded += other.Excluded
}

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root,omitempty"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Report is the top-level structure handed to output writers.
type Report struct {
	Tool     string    `json:"tool"`
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	Repo     RepoInfo  `json:"repo"`
	Total    int       `json:"total"`
	Stats    Stats     `json:"stats"`
	Warnings []Warning `json:"warnings"`
}

// BuildReport assembles a report from an extracted set.
func BuildReport(tool, version, source string, set *Set, stats Stats) *Report {
	warnings := set.Sorted()
	if warnings == nil {
		warnings = []Warning{}
	}
	stats.Unique = len(warnings)
	return &Report{
		Tool:     tool,
		Version:  version,
		Source:   source,
		Total:    len(warnings),
		Stats:    stats,
		Warnings: warnings,
	}
}
