package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the tidyreport configuration.
type Config struct {
	Tool           string       `yaml:"tool" json:"tool"`
	RepoName       string       `yaml:"repoName,omitempty" json:"repoName,omitempty"`
	MaxRows        int          `yaml:"maxRows" json:"maxRows"`
	Output         string       `yaml:"output" json:"output"`
	Format         string       `yaml:"format" json:"format"`
	Jobs           int          `yaml:"jobs" json:"jobs"`
	Exclude        []string     `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	FailOnWarnings int          `yaml:"failOnWarnings,omitempty" json:"failOnWarnings,omitempty"`
	Color          string       `yaml:"color" json:"color"`
	GitHub         GitHubConfig `yaml:"github" json:"github"`
}

// GitHubConfig controls GitHub Actions integration.
type GitHubConfig struct {
	StepSummary bool `yaml:"stepSummary" json:"stepSummary"`
	Annotations int  `yaml:"annotations" json:"annotations"`
}

// Formats accepted for Config.Format.
var Formats = []string{"markdown", "md", "text", "json", "sarif", "html"}

// ColorModes accepted for Config.Color.
var ColorModes = []string{"auto", "always", "never"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Tool:    "clang-tidy",
		MaxRows: 1000,
		Output:  "clang_tidy_report.md",
		Format:  "markdown",
		Jobs:    1,
		Color:   "auto",
	}
}

// Validate checks values that the merge steps cannot catch on their own.
func (c Config) Validate() error {
	if c.Tool == "" {
		return errors.New("tool must not be empty")
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("maxRows must be at least 1, got %d", c.MaxRows)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.FailOnWarnings < 0 {
		return fmt.Errorf("failOnWarnings must not be negative, got %d", c.FailOnWarnings)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unsupported format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("unsupported color mode %q (want one of %s)", c.Color, strings.Join(ColorModes, ", "))
	}
	if c.GitHub.Annotations < 0 {
		return fmt.Errorf("github.annotations must not be negative, got %d", c.GitHub.Annotations)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for tidyreport.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tidyreport"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tidyreport"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "tidyreport"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "tidyreport"), nil
	default:
		return filepath.Join(home, ".config", "tidyreport"), nil
	}
}

// ConfigPath returns the full path to the config file. TIDYREPORT_CONFIG
// overrides the platform location.
func ConfigPath() (string, error) {
	if p := os.Getenv("TIDYREPORT_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// LoadFileWithDefaults returns the defaults overlaid with the config file,
// ignoring env and flags. It is the base that config set edits.
func LoadFileWithDefaults() (Config, error) {
	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

// Parse validates a YAML document against the config schema and decodes it.
func Parse(data []byte) (Config, error) {
	if err := validateDocument(data); err != nil {
		return Config{}, fmt.Errorf("invalid config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Tool != "" {
		dst.Tool = src.Tool
	}
	if src.RepoName != "" {
		dst.RepoName = src.RepoName
	}
	if src.MaxRows > 0 {
		dst.MaxRows = src.MaxRows
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Jobs > 0 {
		dst.Jobs = src.Jobs
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.FailOnWarnings > 0 {
		dst.FailOnWarnings = src.FailOnWarnings
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	// A zero bool cannot be told apart from an unset one, so the file can
	// only switch the step summary on.
	dst.GitHub.StepSummary = src.GitHub.StepSummary || dst.GitHub.StepSummary
	if src.GitHub.Annotations > 0 {
		dst.GitHub.Annotations = src.GitHub.Annotations
	}
}

// envKeys maps environment variables to SetField keys.
var envKeys = []struct {
	env string
	key string
}{
	{"TIDYREPORT_TOOL", "tool"},
	{"TIDYREPORT_REPO_NAME", "repoName"},
	{"TIDYREPORT_MAX_ROWS", "maxRows"},
	{"TIDYREPORT_OUTPUT", "output"},
	{"TIDYREPORT_FORMAT", "format"},
	{"TIDYREPORT_JOBS", "jobs"},
	{"TIDYREPORT_EXCLUDE", "exclude"},
	{"TIDYREPORT_FAIL_ON_WARNINGS", "failOnWarnings"},
	{"TIDYREPORT_COLOR", "color"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	// sorted so the first reported error is stable
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := overrides[k]
		if v == "" {
			continue
		}
		if err := SetField(cfg, k, v); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "tool":
		cfg.Tool = value
	case "repoName":
		cfg.RepoName = value
	case "maxRows":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxRows must be an integer: %w", err)
		}
		cfg.MaxRows = n
	case "output":
		cfg.Output = value
	case "format":
		cfg.Format = value
	case "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("jobs must be an integer: %w", err)
		}
		cfg.Jobs = n
	case "exclude":
		cfg.Exclude = SplitList(value)
	case "failOnWarnings":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("failOnWarnings must be an integer: %w", err)
		}
		cfg.FailOnWarnings = n
	case "color":
		cfg.Color = value
	case "github.stepSummary":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("github.stepSummary must be a boolean: %w", err)
		}
		cfg.GitHub.StepSummary = b
	case "github.annotations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("github.annotations must be an integer: %w", err)
		}
		cfg.GitHub.Annotations = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
