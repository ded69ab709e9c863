package tidy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/tidyreport/internal/pathmatch"
)

// ErrLogNotFound is returned by ExtractFile when the log path does not exist.
var ErrLogNotFound = errors.New("log not found")

// diagnosticMarker is the literal every diagnostic line carries. Lines
// without it are rejected before the full grammar match.
const diagnosticMarker = "warning:"

// warningRe is the clang diagnostic grammar:
//
//	<file>:<line>:<col>: warning: <message> [<check>]
//
// file is greedy so it extends to the last line:col: triplet, and the check
// is the final bracketed token with no nested brackets.
var warningRe = regexp.MustCompile(
	`^(?P<file>.+):(?P<line>\d+):(?P<col>\d+): warning: (?P<msg>.+) \[(?P<check>[^\[\]]+)\]$`,
)

var (
	reFile  = warningRe.SubexpIndex("file")
	reLine  = warningRe.SubexpIndex("line")
	reCol   = warningRe.SubexpIndex("col")
	reMsg   = warningRe.SubexpIndex("msg")
	reCheck = warningRe.SubexpIndex("check")
)

// Options configures an Extractor.
type Options struct {
	// RepoName is the repository directory name used to shorten paths.
	RepoName string
	// WorkDir is the directory paths are made relative to when RepoName
	// does not occur in them. Empty disables that step.
	WorkDir string
	// Exclude drops warnings whose resolved path matches any glob.
	Exclude []string
	// Jobs > 1 splits the log into chunks parsed concurrently.
	Jobs   int
	Logger *slog.Logger
}

// Extractor turns diagnostic logs into warning sets.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// NewExtractor returns an Extractor for opts.
func NewExtractor(opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{opts: opts, logger: logger}
}

// ParseLine matches a normalized line against the diagnostic grammar. The
// returned warning carries the file exactly as written in the log.
func ParseLine(line string) (Warning, bool) {
	if !strings.Contains(line, diagnosticMarker) {
		return Warning{}, false
	}
	m := warningRe.FindStringSubmatch(line)
	if m == nil {
		return Warning{}, false
	}
	ln, err := strconv.Atoi(m[reLine])
	if err != nil {
		return Warning{}, false
	}
	col, err := strconv.Atoi(m[reCol])
	if err != nil {
		return Warning{}, false
	}
	return Warning{
		File:    m[reFile],
		Line:    ln,
		Column:  col,
		Message: m[reMsg],
		Check:   m[reCheck],
	}, true
}

// ExtractFile reads the log at path and extracts its warnings.
func (e *Extractor) ExtractFile(path string) (*Set, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Stats{}, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, Stats{}, fmt.Errorf("opening log %s: %w", path, err)
	}
	defer f.Close()

	set, stats, err := e.Extract(f)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading log %s: %w", path, err)
	}
	e.logger.Debug("extracted warnings",
		"path", path,
		"lines", stats.Lines,
		"candidates", stats.Candidates,
		"matched", stats.Matched,
		"excluded", stats.Excluded,
		"unique", stats.Unique,
	)
	return set, stats, nil
}

// Extract reads a log stream and returns its deduplicated warnings.
// Undecodable bytes are replaced with U+FFFD rather than failing the read.
func (e *Extractor) Extract(r io.Reader) (*Set, Stats, error) {
	if e.opts.Jobs > 1 {
		var lines []string
		if err := eachLine(r, func(line string) {
			lines = append(lines, line)
		}); err != nil {
			return nil, Stats{}, err
		}
		return e.extractParallel(lines)
	}

	set := NewSet()
	var stats Stats
	if err := eachLine(r, func(line string) {
		e.extractLine(line, set, &stats)
	}); err != nil {
		return nil, Stats{}, err
	}
	stats.Unique = set.Len()
	return set, stats, nil
}

// extractLine runs the per-line pipeline, adding a match to set.
func (e *Extractor) extractLine(raw string, set *Set, stats *Stats) {
	stats.Lines++
	line := Normalize(raw)
	if !strings.Contains(line, diagnosticMarker) {
		return
	}
	stats.Candidates++
	w, ok := ParseLine(line)
	if !ok {
		return
	}
	stats.Matched++
	w.File = ResolvePath(w.File, e.opts.RepoName, e.opts.WorkDir)
	if len(e.opts.Exclude) > 0 && pathmatch.MatchesAny(w.File, e.opts.Exclude) {
		stats.Excluded++
		return
	}
	set.Add(w)
}

// eachLine decodes r as UTF-8 and calls fn for every line. "\n", "\r\n" and
// a lone "\r" all end a line, so progress output that rewrites the terminal
// line does not glue onto the diagnostic that follows it.
func eachLine(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(transform.NewReader(r, unicode.UTF8.NewDecoder()))
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			for _, part := range strings.Split(line, "\r") {
				fn(part)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
