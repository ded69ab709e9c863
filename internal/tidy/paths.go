package tidy

import "strings"

// ResolvePath rewrites a diagnostic path into repository-relative form.
//
// If repoName+"/" occurs anywhere in raw, everything up to and including the
// first occurrence is dropped. Otherwise, if raw lies lexically under workDir,
// the workDir prefix is dropped. Otherwise raw is returned unchanged. The
// filesystem is never consulted and separators are not rewritten.
func ResolvePath(raw, repoName, workDir string) string {
	if repoName != "" {
		marker := repoName + "/"
		if idx := strings.Index(raw, marker); idx >= 0 {
			return raw[idx+len(marker):]
		}
	}
	if workDir != "" {
		dir := strings.TrimRight(workDir, "/")
		if dir == "" {
			// workDir is the filesystem root
			switch {
			case raw == "/":
				return "."
			case strings.HasPrefix(raw, "/"):
				return raw[1:]
			}
			return raw
		}
		if raw == dir {
			return "."
		}
		if rest, ok := strings.CutPrefix(raw, dir+"/"); ok && rest != "" {
			return rest
		}
	}
	return raw
}
