// Package pathmatch matches slash-separated paths against exclusion globs.
//
// Patterns use [path.Match] syntax plus two conveniences: a leading "**/"
// matches at any depth, and a trailing "/**" matches everything beneath a
// directory.
package pathmatch
