package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucasnoah/autobahncheck/internal/db"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded check runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("invalid limit %d: must be positive", limit)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		resolveDSN(cmd, cfg)
		dsn := cfg.Record.DSN
		if dsn == "" {
			return fmt.Errorf("no database configured (use --record-dsn or $%s)", db.EnvDSN)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RecordTimeout(defaultRecordTimeout))
		defer cancel()

		d, err := db.Open(ctx, dsn)
		if err != nil {
			return err
		}
		defer d.Close(context.Background())

		if err := d.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		runs, err := d.GetCheckHistory(ctx, limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No check runs found.")
			return nil
		}

		fmt.Fprintf(w, "%-6s %-20s %-20s %-6s %-6s %-6s %s\n",
			"ID", "TIMESTAMP", "GROUP", "CASES", "FAILED", "RESULT", "FILE")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 90))
		for _, r := range runs {
			result := "FAIL"
			if r.Passed {
				result = "PASS"
			}
			fmt.Fprintf(w, "%-6d %-20s %-20s %-6d %-6d %-6s %s\n",
				r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Group,
				r.Cases, r.FailedCases, result, r.File)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of runs to show")
	historyCmd.Flags().String("record-dsn", "", "Postgres DSN (default $"+db.EnvDSN+")")
}
