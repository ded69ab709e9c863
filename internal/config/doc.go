// Package config loads and merges tidyreport configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (TIDYREPORT_REPO_NAME, TIDYREPORT_MAX_ROWS, etc.)
//  3. Config file ($TIDYREPORT_CONFIG or $XDG_CONFIG_HOME/tidyreport/config.yaml)
//  4. Built-in defaults
//
// Config files are YAML and are checked against an embedded JSON schema
// before they are merged. Use [Load] to obtain a merged [Config], [Save] to
// write one, and [SetField] to update a single key.
package config
