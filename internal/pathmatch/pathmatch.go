package pathmatch

import (
	"path"
	"strings"
)

// MatchesAny returns true if p matches any of the given glob patterns.
// Malformed patterns never match.
func MatchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(pattern, p) {
			return true
		}
	}
	return false
}

// Match reports whether p matches a single pattern.
func Match(pattern, p string) bool {
	if pattern == "" {
		return false
	}
	if matched, err := path.Match(pattern, p); err == nil && matched {
		return true
	}

	// "dir/**" covers everything under dir, at any depth.
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
		if dir == "**" || dir == "" {
			return true
		}
		if hasDirPrefix(dir, p) {
			return true
		}
	}

	// "**/x" matches x against the base name and against every suffix of p
	// that starts at a path segment.
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		if matched, err := path.Match(rest, path.Base(p)); err == nil && matched {
			return true
		}
		for i := 0; i < len(p); i++ {
			if i == 0 || p[i-1] == '/' {
				if Match(rest, p[i:]) {
					return true
				}
			}
		}
	}
	return false
}

// hasDirPrefix reports whether p lies under the directory glob dir.
func hasDirPrefix(dir, p string) bool {
	segs := strings.Count(dir, "/") + 1
	parts := strings.SplitN(p, "/", segs+1)
	if len(parts) <= segs {
		return false
	}
	prefix := strings.Join(parts[:segs], "/")
	matched, err := path.Match(dir, prefix)
	return err == nil && matched
}
