package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dshills/tidyreport/internal/config"
	"github.com/dshills/tidyreport/internal/gitctx"
	"github.com/dshills/tidyreport/internal/github"
	"github.com/dshills/tidyreport/internal/output"
	"github.com/dshills/tidyreport/internal/tidy"
)

// stdoutPath as --output writes the report to stdout.
const stdoutPath = "-"

// Report flags
var (
	flagBuildLog       string
	flagOutput         string
	flagFormat         string
	flagRepoName       string
	flagTool           string
	flagMaxRows        int
	flagJobs           int
	flagExclude        string
	flagFailOnWarnings int
	flagColor          string
	flagStepSummary    bool
	flagAnnotations    int
	flagPRComment      int
	flagVerbose        bool
)

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagOutput != "" {
		m["output"] = flagOutput
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagRepoName != "" {
		m["repoName"] = flagRepoName
	}
	if flagTool != "" {
		m["tool"] = flagTool
	}
	if flagMaxRows > 0 {
		m["maxRows"] = strconv.Itoa(flagMaxRows)
	}
	if flagJobs > 0 {
		m["jobs"] = strconv.Itoa(flagJobs)
	}
	if flagExclude != "" {
		m["exclude"] = flagExclude
	}
	if flagFailOnWarnings > 0 {
		m["failOnWarnings"] = strconv.Itoa(flagFailOnWarnings)
	}
	if flagColor != "" {
		m["color"] = flagColor
	}
	if flagStepSummary {
		m["github.stepSummary"] = "true"
	}
	if flagAnnotations > 0 {
		m["github.annotations"] = strconv.Itoa(flagAnnotations)
	}
	return m
}

// repoMeta reads git metadata; tests replace it.
var repoMeta = gitctx.GetRepoMeta

// reportRun carries everything one report invocation needs.
type reportRun struct {
	cfg       config.Config
	logPath   string
	prComment int
	stdout    io.Writer
	stderr    io.Writer
	logger    *slog.Logger
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a warning report from a clang-tidy build log",
	Long: "Extract clang-tidy warnings from a build log, deduplicate them, and write a " +
		"report grouped by file and by check. Prints TOTAL_WARNINGS and REPORT_PATH.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		exitCode = runReport(cmd.Context(), reportRun{
			cfg:       cfg,
			logPath:   flagBuildLog,
			prComment: flagPRComment,
			stdout:    cmd.OutOrStdout(),
			stderr:    cmd.ErrOrStderr(),
			logger:    newLogger(cmd.ErrOrStderr(), flagVerbose),
		})
		return nil
	},
}

// runReport performs one report invocation and returns its exit code.
func runReport(ctx context.Context, r reportRun) int {
	cfg := r.cfg
	logger := r.logger
	if logger == nil {
		logger = newLogger(io.Discard, false)
	}

	// a missing log ends the run before git or the filesystem are consulted
	if _, err := os.Stat(r.logPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(r.stderr, "Error: build log does not exist: %s\n", r.logPath)
		return ExitInputError
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return ExitRuntimeError
	}

	meta, err := repoMeta("")
	if err != nil {
		logger.Debug("no git metadata", "err", err)
	}
	repoName := cfg.RepoName
	if repoName == "" {
		repoName = meta.Name()
		logger.Debug("repository name from git", "repoName", repoName)
	}

	extractor := tidy.NewExtractor(tidy.Options{
		RepoName: repoName,
		WorkDir:  workDir,
		Exclude:  cfg.Exclude,
		Jobs:     cfg.Jobs,
		Logger:   logger,
	})
	set, stats, err := extractor.ExtractFile(r.logPath)
	if err != nil {
		if errors.Is(err, tidy.ErrLogNotFound) {
			fmt.Fprintf(r.stderr, "Error: build log does not exist: %s\n", r.logPath)
		} else {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
		}
		return ExitInputError
	}

	report := tidy.BuildReport(cfg.Tool, version, r.logPath, set, stats)
	report.Repo = tidy.RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}

	toStdout := cfg.Output == stdoutPath
	opts := output.Options{
		MaxRows: cfg.MaxRows,
		Color:   useColor(cfg.Color, toStdout),
	}

	var reportPath string
	if toStdout {
		writer, err := output.GetWriter(cfg.Format, opts)
		if err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitUsageError
		}
		if err := writer.Write(r.stdout, report); err != nil {
			fmt.Fprintf(r.stderr, "Error writing output: %v\n", err)
			return ExitRuntimeError
		}
	} else {
		reportPath, err = filepath.Abs(cfg.Output)
		if err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitRuntimeError
		}
		if err := output.WriteReport(report, cfg.Format, reportPath, opts); err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitRuntimeError
		}
		if _, err := os.Stat(reportPath); err != nil {
			fmt.Fprintf(r.stderr, "Error: failed to write report: %s\n", reportPath)
			return ExitRuntimeError
		}
		logger.Info("report written", "path", reportPath, "warnings", report.Total, "format", cfg.Format)
	}

	outputs := github.Outputs(report.Total, reportPath)
	if toStdout {
		// the report owns stdout, and there is no file to point at
		outputs = outputs[:1]
	} else if err := github.WriteOutputs(r.stdout, outputs); err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return ExitRuntimeError
	}
	if ok, err := github.AppendOutputFile(outputs); err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return ExitRuntimeError
	} else if ok {
		logger.Debug("outputs appended to GITHUB_OUTPUT")
	}

	if n := cfg.GitHub.Annotations; n > 0 {
		written, err := github.WriteAnnotations(r.stderr, report.Warnings, n)
		if err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitRuntimeError
		}
		logger.Debug("annotations emitted", "count", written)
	}

	if cfg.GitHub.StepSummary || r.prComment > 0 {
		md, err := renderMarkdown(report, cfg.MaxRows)
		if err != nil {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitRuntimeError
		}
		if cfg.GitHub.StepSummary {
			ok, err := github.AppendStepSummary(md)
			if err != nil {
				fmt.Fprintf(r.stderr, "Error: %v\n", err)
				return ExitRuntimeError
			}
			if !ok {
				logger.Warn("GITHUB_STEP_SUMMARY is not set, skipping job summary")
			}
		}
		if r.prComment > 0 {
			if err := postComment(ctx, r.prComment, md, logger); err != nil {
				fmt.Fprintf(r.stderr, "Error: %v\n", err)
				return ExitRuntimeError
			}
		}
	}

	if cfg.FailOnWarnings > 0 && report.Total >= cfg.FailOnWarnings {
		fmt.Fprintf(r.stderr, "%d warnings reach the failure threshold of %d\n", report.Total, cfg.FailOnWarnings)
		return ExitWarnings
	}
	return ExitSuccess
}

// renderMarkdown renders the markdown report in memory, whatever the
// configured artifact format.
func renderMarkdown(report *tidy.Report, maxRows int) ([]byte, error) {
	var buf bytes.Buffer
	w := &output.MarkdownWriter{MaxRows: maxRows}
	if err := w.Write(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown summary: %w", err)
	}
	return buf.Bytes(), nil
}

func postComment(ctx context.Context, pr int, body []byte, logger *slog.Logger) error {
	client, err := github.NewClient()
	if err != nil {
		return err
	}
	owner, repo, err := github.DetectRepo()
	if err != nil {
		return err
	}
	c, err := client.PostComment(ctx, owner, repo, pr, string(body))
	if err != nil {
		return err
	}
	logger.Info("report posted", "pr", pr, "url", c.HTMLURL)
	return nil
}

// useColor resolves the color mode. auto enables color only for a terminal
// stdout with NO_COLOR unset.
func useColor(mode string, toStdout bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if !toStdout || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&flagBuildLog, "build-log", "l", "", "Path to the clang-tidy build log (required)")
	f.StringVarP(&flagOutput, "output", "o", "", `Report path (default "clang_tidy_report.md", "-" for stdout)`)
	f.StringVar(&flagFormat, "format", "", "Report format (markdown, text, json, sarif, html)")
	f.StringVar(&flagRepoName, "repo-name", "", "Repository directory name used to shorten paths (default: git toplevel name)")
	f.StringVar(&flagTool, "tool", "", `Analyzer name shown in the report (default "clang-tidy")`)
	f.IntVar(&flagMaxRows, "max-rows", 0, "Maximum rows per detail table (default 1000)")
	f.IntVar(&flagJobs, "jobs", 0, "Parse the log in parallel chunks with this many workers")
	f.StringVar(&flagExclude, "exclude", "", "Drop warnings whose path matches these globs (comma-separated)")
	f.IntVar(&flagFailOnWarnings, "fail-on-warnings", 0, "Exit 1 when at least this many distinct warnings are found (0 disables)")
	f.StringVar(&flagColor, "color", "", "Color for text output on a terminal (auto, always, never)")
	f.BoolVar(&flagStepSummary, "step-summary", false, "Append the markdown report to GITHUB_STEP_SUMMARY")
	f.IntVar(&flagAnnotations, "annotations", 0, "Emit up to this many ::warning workflow commands")
	f.IntVar(&flagPRComment, "pr-comment", 0, "Post the markdown report as a comment on this pull request")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Log extraction details to stderr")
	_ = reportCmd.MarkFlagRequired("build-log")
}
