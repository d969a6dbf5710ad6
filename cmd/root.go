// Package cmd implements the collection engine's command-line shell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triageir/logging"
	"triageir/output"
	"triageir/scan"
)

// Version is the engine's release version, stamped at build time.
var Version = "1.0.0"

// Flags bound to the root command.
var (
	flagOutput   string
	flagFormat   string
	flagVerbose  bool
	flagPassword string
)

// exitCode carries the process exit code decided inside RunE back to
// Execute, since Cobra's own return value is an error, not an int.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "triageir",
	Short: "Live-triage collection engine for Windows endpoints",
	Long: `triageir enumerates processes, network connections, persistence
mechanisms, curated Windows Event Log entries, and Prefetch/Shimcache
execution evidence from a running Windows system, then writes a single
JSON report plus its structured collection log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
	RunE: runScan,
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the JSON report to this path (default: standard output)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "json", "report format; only \"json\" is recognized")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "mirror each collection log entry to standard error")
	rootCmd.Flags().StringVar(&flagPassword, "password", "", "reserved for the packaging layer; the collection engine ignores it")
}

func runScan(cmd *cobra.Command, args []string) error {
	if flagFormat != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid value '%s' for --format: only \"json\" is recognized\n", flagFormat)
		exitCode = 2
		return nil
	}

	result := scan.Run(scan.Config{Verbose: flagVerbose})

	dest := flagOutput
	if dest == "" {
		dest = "<stdout>"
	}
	logging.WithPath(logging.Default(), dest).Debug("writing report")

	if err := output.Write(result, flagOutput, cmd.OutOrStdout()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to write report: %v\n", err)
		exitCode = 1
		return nil
	}

	exitCode = scan.ExitCode(result)
	return nil
}

// Execute runs the root command and returns the process exit code spec'd
// for the CLI surface: 0 clean, 1 fatal output failure, 2 completed with
// ERROR-level collection log entries.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("command failed", "error", err)
		return 1
	}
	return exitCode
}

func setupLogging() {
	levelName := "info"
	if flagVerbose {
		levelName = "debug"
	}

	logger := logging.NewLogger(logging.Config{
		Level:  logging.ParseLevel(levelName),
		Format: "text",
		Output: os.Stderr,
	})
	logging.SetDefault(logger)
}
