package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/lucasnoah/autobahncheck/internal/checks"
	"github.com/lucasnoah/autobahncheck/internal/config"
	"github.com/lucasnoah/autobahncheck/internal/db"
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "autobahncheck --filepath <index.json>",
	Short: "autobahncheck — gate CI on WebSocket conformance suite results",
	Long: `autobahncheck reads the JSON results written by the Autobahn WebSocket
testsuite and fails when any case reports a behavior or close behavior
outside the allowed outcomes (OK, INFORMATIONAL and, with
--ignore-non-strict, NON-STRICT).

Only the first group of the results file is checked unless --group is set.
Every offending case is logged to stderr before the command exits 1.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runCheck,
}

// Execute runs the root command. Errors, including panics, are logged to the
// command's stderr and returned so the caller can exit non-zero.
func Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			newLogger(rootCmd.ErrOrStderr()).Error("unexpected failure",
				"panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		logError(newLogger(rootCmd.ErrOrStderr()), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.Flags().String("filepath", "", "Path to the testsuite results JSON file (required)")
	rootCmd.Flags().Bool("ignore-non-strict", false, "Accept NON-STRICT as a passing outcome")
	rootCmd.Flags().String("group", "", "Results group to check (default: first key in the file)")
	rootCmd.Flags().String("format", "", "Summary format: text or json (default text)")
	rootCmd.Flags().Bool("quiet", false, "Do not print a summary to stdout")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.Flags().String("record-dsn", "", "Postgres DSN to record the run in (default $"+db.EnvDSN+")")
	_ = rootCmd.MarkFlagRequired("filepath")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// logError writes the final error of a run. Violations are not repeated
// since each one was logged while checking.
func logError(logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, checks.ErrViolations):
	case errors.Is(err, checks.ErrFileNotFound):
		logger.Error("results file is not found", "error", err)
	case errors.Is(err, checks.ErrNoGroup):
		logger.Error("results file has no key present", "error", err)
	default:
		logger.Error("check failed", "error", err)
	}
}
