package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lucasnoah/autobahncheck/internal/checks"
	"github.com/lucasnoah/autobahncheck/internal/config"
	"github.com/lucasnoah/autobahncheck/internal/db"
	"github.com/spf13/cobra"
)

const defaultRecordTimeout = 10 * time.Second

func runCheck(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("filepath")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	report, err := checks.CheckFile(path, checks.Options{
		IgnoreNonStrict: cfg.IgnoreNonStrict,
		Group:           cfg.Group,
		Logger:          newLogger(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	if !quiet {
		if err := printReport(cmd.OutOrStdout(), report, cfg.Format); err != nil {
			return err
		}
	}

	if cfg.Record.DSN != "" {
		if _, err := recordRun(cmd.Context(), cfg, report); err != nil {
			return fmt.Errorf("record check run: %w", err)
		}
	}

	return report.Err()
}

// loadConfig reads the file named by --config, or the default file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDSN applies --record-dsn and the environment over the file value.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("record-dsn") {
		cfg.Record.DSN, _ = cmd.Flags().GetString("record-dsn")
	} else if dsn := db.DSNFromEnv(); dsn != "" {
		cfg.Record.DSN = dsn
	}
}

// resolveConfig loads the config file and applies flags on top of it.
// Precedence: explicit flag, then environment (DSN only), then file.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if flags.Changed("ignore-non-strict") {
		cfg.IgnoreNonStrict, _ = flags.GetBool("ignore-non-strict")
	}
	if flags.Changed("group") {
		cfg.Group, _ = flags.GetString("group")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	resolveDSN(cmd, cfg)

	if verrs := config.Validate(cfg); len(verrs) > 0 {
		errs := make([]error, 0, len(verrs))
		for _, e := range verrs {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func printReport(w io.Writer, report *checks.Report, format string) error {
	if format == config.FormatJSON {
		out, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	}

	fmt.Fprintln(w, report.Summary())
	for _, v := range report.Violations {
		fmt.Fprintf(w, "  %-10s %-14s %s\n", v.Case, v.Field, v.Status)
	}
	return nil
}

// recordRun stores the report in the configured database.
func recordRun(ctx context.Context, cfg *config.Config, report *checks.Report) (int64, error) {
	run, err := checkRunFromReport(report, cfg.IgnoreNonStrict)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RecordTimeout(defaultRecordTimeout))
	defer cancel()

	d, err := db.Open(ctx, cfg.Record.DSN)
	if err != nil {
		return 0, err
	}
	defer d.Close(context.Background())

	if err := d.Migrate(ctx); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	return d.LogCheckRun(ctx, run)
}

func checkRunFromReport(report *checks.Report, ignoreNonStrict bool) (db.CheckRun, error) {
	run := db.CheckRun{
		File:            report.File,
		Group:           report.Group,
		Cases:           report.Cases,
		FailedCases:     len(report.FailedCases()),
		Violations:      len(report.Violations),
		Passed:          report.Passed,
		IgnoreNonStrict: ignoreNonStrict,
		Summary:         report.Summary(),
	}
	if len(report.Violations) > 0 {
		data, err := json.Marshal(report.Violations)
		if err != nil {
			return db.CheckRun{}, fmt.Errorf("encode findings: %w", err)
		}
		run.Findings = string(data)
	}
	return run, nil
}
