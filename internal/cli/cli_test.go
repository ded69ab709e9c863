package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/tidyreport/internal/config"
	"github.com/dshills/tidyreport/internal/gitctx"
	"github.com/dshills/tidyreport/internal/tidy"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagBuildLog = ""
	flagOutput = ""
	flagFormat = ""
	flagRepoName = ""
	flagTool = ""
	flagMaxRows = 0
	flagJobs = 0
	flagExclude = ""
	flagFailOnWarnings = 0
	flagColor = ""
	flagStepSummary = false
	flagAnnotations = 0
	flagPRComment = 0
	flagVerbose = false
}

// isolateEnv keeps the host CI environment out of a test run.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_OUTPUT", "")
	t.Setenv("GITHUB_STEP_SUMMARY", "")
	t.Setenv("TIDYREPORT_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
}

const exampleLog = "" +
	"/home/ci/opentelemetry-cpp/sdk/src/a.cc:10:5: warning: unused variable 'x' [misc-unused]\n" +
	"/home/ci/opentelemetry-cpp/sdk/src/a.cc:10:5: warning: unused variable 'x' [misc-unused]\n" +
	"[ 42%] Building CXX object sdk/src/b.cc.o\n" +
	"\x1b[1m/home/ci/opentelemetry-cpp/api/b.h:3:1: warning: use nullptr [modernize-use-nullptr]\x1b[0m\r\n"

// writeLog writes content to a temp build log and returns its path.
func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.RepoName = "opentelemetry-cpp"
	cfg.Output = filepath.Join(t.TempDir(), "clang_tidy_report.md")
	return cfg
}

func runWith(cfg config.Config, logPath string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := runReport(context.Background(), reportRun{
		cfg:     cfg,
		logPath: logPath,
		stdout:  &stdout,
		stderr:  &stderr,
	})
	return code, stdout.String(), stderr.String()
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagOutput = "out.md"
	flagFormat = "sarif"
	flagRepoName = "opentelemetry-cpp"
	flagTool = "clang-tidy-18"
	flagMaxRows = 50
	flagJobs = 4
	flagExclude = "third_party/**"
	flagFailOnWarnings = 1
	flagColor = "never"
	flagStepSummary = true
	flagAnnotations = 20

	m := buildOverrides()
	want := map[string]string{
		"output":             "out.md",
		"format":             "sarif",
		"repoName":           "opentelemetry-cpp",
		"tool":               "clang-tidy-18",
		"maxRows":            "50",
		"jobs":               "4",
		"exclude":            "third_party/**",
		"failOnWarnings":     "1",
		"color":              "never",
		"github.stepSummary": "true",
		"github.annotations": "20",
	}
	if len(m) != len(want) {
		t.Fatalf("buildOverrides() = %v, want %v", m, want)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("overrides[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_AreValidKeys(t *testing.T) {
	resetFlags()
	defer resetFlags()
	flagMaxRows = 3
	flagStepSummary = true
	flagAnnotations = 2

	cfg := config.Default()
	for k, v := range buildOverrides() {
		if err := config.SetField(&cfg, k, v); err != nil {
			t.Errorf("override %q is not a config key: %v", k, err)
		}
	}
}

// --- runReport tests ---

func TestRunReport_Example(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)

	code, stdout, stderr := runWith(cfg, writeLog(t, exampleLog))
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}

	want := "TOTAL_WARNINGS=2\nREPORT_PATH=" + cfg.Output + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(data)
	if !strings.HasPrefix(report, "#### `clang-tidy` job reported 2 warnings\n\n") {
		t.Errorf("unexpected title: %q", report[:60])
	}
	if !strings.Contains(report, "**sdk/src/a.cc** (1 warnings)") {
		t.Error("report should group the deduplicated warning under its relative path")
	}
	if !strings.Contains(report, "**api/b.h** (1 warnings)") {
		t.Error("colored CRLF line should be recognized")
	}
}

func TestRunReport_Idempotent(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)
	logPath := writeLog(t, exampleLog)

	runWith(cfg, logPath)
	first, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	runWith(cfg, logPath)
	second, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated runs should produce byte-identical reports")
	}
}

func TestRunReport_MissingLog(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)
	missing := filepath.Join(t.TempDir(), "nope.log")

	code, stdout, stderr := runWith(cfg, missing)
	if code != ExitInputError {
		t.Errorf("exit = %d, want %d", code, ExitInputError)
	}
	if !strings.Contains(stderr, missing) {
		t.Errorf("stderr %q should name the missing path", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
	if _, err := os.Stat(cfg.Output); err == nil {
		t.Error("no report should be written for a missing log")
	}
}

func TestRunReport_MissingLogSkipsGit(t *testing.T) {
	isolateEnv(t)
	called := false
	orig := repoMeta
	repoMeta = func(dir string) (gitctx.RepoMeta, error) {
		called = true
		return gitctx.RepoMeta{}, nil
	}
	defer func() { repoMeta = orig }()

	code, _, _ := runWith(testConfig(t), filepath.Join(t.TempDir(), "nope.log"))
	if code != ExitInputError {
		t.Errorf("exit = %d, want %d", code, ExitInputError)
	}
	if called {
		t.Error("git metadata should not be read when the build log is missing")
	}
}

func TestRunReport_Empty(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)

	code, stdout, _ := runWith(cfg, writeLog(t, "ninja: no work to do.\n"))
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(stdout, "TOTAL_WARNINGS=0\n") {
		t.Errorf("stdout = %q", stdout)
	}
	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#### `clang-tidy` job reported 0 warnings\n\n" {
		t.Errorf("report = %q", data)
	}
}

func TestRunReport_OutputDirMissing(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)
	cfg.Output = filepath.Join(t.TempDir(), "missing", "report.md")

	code, stdout, stderr := runWith(cfg, writeLog(t, exampleLog))
	if code != ExitRuntimeError {
		t.Errorf("exit = %d, want %d", code, ExitRuntimeError)
	}
	if !strings.Contains(stderr, cfg.Output) {
		t.Errorf("stderr %q should name the expected report path %s", stderr, cfg.Output)
	}
	if strings.Contains(stdout, "REPORT_PATH") {
		t.Error("outputs should not be printed when the report could not be written")
	}
}

func TestRunReport_FailOnWarnings(t *testing.T) {
	isolateEnv(t)
	tests := []struct {
		threshold int
		want      int
	}{
		{0, ExitSuccess},
		{2, ExitWarnings},
		{3, ExitSuccess},
	}
	for _, tt := range tests {
		cfg := testConfig(t)
		cfg.FailOnWarnings = tt.threshold
		code, stdout, _ := runWith(cfg, writeLog(t, exampleLog))
		if code != tt.want {
			t.Errorf("threshold %d: exit = %d, want %d", tt.threshold, code, tt.want)
		}
		if !strings.Contains(stdout, "TOTAL_WARNINGS=2") {
			t.Errorf("threshold %d: outputs should still be printed", tt.threshold)
		}
	}
}

func TestRunReport_Exclude(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)
	cfg.Exclude = []string{"api/**"}

	_, stdout, _ := runWith(cfg, writeLog(t, exampleLog))
	if !strings.HasPrefix(stdout, "TOTAL_WARNINGS=1\n") {
		t.Errorf("stdout = %q, want one warning after exclusion", stdout)
	}
}

func TestRunReport_Parallel(t *testing.T) {
	isolateEnv(t)
	cfg := testConfig(t)
	cfg.Jobs = 4

	_, stdout, _ := runWith(cfg, writeLog(t, exampleLog))
	if !strings.HasPrefix(stdout, "TOTAL_WARNINGS=2\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunReport_GitHubOutputs(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	outFile := filepath.Join(dir, "github_output")
	summary := filepath.Join(dir, "summary.md")
	t.Setenv("GITHUB_OUTPUT", outFile)
	t.Setenv("GITHUB_STEP_SUMMARY", summary)

	cfg := testConfig(t)
	cfg.GitHub.StepSummary = true
	cfg.GitHub.Annotations = 1

	code, stdout, stderr := runWith(cfg, writeLog(t, exampleLog))
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != stdout {
		t.Errorf("GITHUB_OUTPUT = %q, want stdout %q", data, stdout)
	}

	sum, err := os.ReadFile(summary)
	if err != nil {
		t.Fatal(err)
	}
	report, _ := os.ReadFile(cfg.Output)
	if !bytes.Equal(sum, report) {
		t.Error("step summary should carry the markdown report")
	}

	if strings.Count(stderr, "::warning ") != 1 {
		t.Errorf("stderr should carry exactly one annotation:\n%s", stderr)
	}
	if !strings.Contains(stderr, "::warning file=api/b.h,line=3,col=1,title=modernize-use-nullptr::use nullptr") {
		t.Errorf("annotation missing or malformed:\n%s", stderr)
	}
}

func TestRunReport_Stdout(t *testing.T) {
	isolateEnv(t)
	outFile := filepath.Join(t.TempDir(), "github_output")
	t.Setenv("GITHUB_OUTPUT", outFile)

	cfg := testConfig(t)
	cfg.Output = stdoutPath
	cfg.Format = "json"

	code, stdout, stderr := runWith(cfg, writeLog(t, exampleLog))
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}

	var report tidy.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout should be the JSON report: %v\n%s", err, stdout)
	}
	if report.Total != 2 {
		t.Errorf("Total = %d, want 2", report.Total)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "TOTAL_WARNINGS=2\n" {
		t.Errorf("GITHUB_OUTPUT = %q", data)
	}
}

// --- helpers ---

func TestUseColor(t *testing.T) {
	if !useColor("always", false) {
		t.Error("always should enable color")
	}
	if useColor("never", true) {
		t.Error("never should disable color")
	}
	if useColor("auto", false) {
		t.Error("auto should disable color when not writing to stdout")
	}
	t.Setenv("NO_COLOR", "1")
	if useColor("auto", true) {
		t.Error("auto should honor NO_COLOR")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := newLogger(&buf, false)
	if quiet.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be off without verbose")
	}
	loud := newLogger(&buf, true)
	loud.Debug("extracted warnings", "unique", 2)
	if !strings.Contains(buf.String(), "unique=2") {
		t.Errorf("verbose logger output = %q", buf.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	set := tidy.NewSet()
	set.Add(tidy.Warning{File: "a.cc", Line: 1, Column: 1, Message: "m", Check: "misc-x"})
	report := tidy.BuildReport("clang-tidy", version, "build.log", set, tidy.Stats{})

	md, err := renderMarkdown(report, 10)
	if err != nil {
		t.Fatalf("renderMarkdown error: %v", err)
	}
	if !bytes.HasPrefix(md, []byte("#### `clang-tidy` job reported 1 warnings")) {
		t.Errorf("markdown = %q", md)
	}
}
