package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitWarnings     = 1
	ExitUsageError   = 2
	ExitInputError   = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "tidyreport",
	Short: "Digest clang-tidy build logs into navigable reports",
	Long: "tidyreport extracts clang-tidy warnings from a build log, removes duplicates, " +
		"and writes a markdown report grouped by file and by check.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print tidyreport version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "tidyreport version %s\n", version)
	},
}
