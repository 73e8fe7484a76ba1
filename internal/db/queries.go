package db

import (
	"context"
	"fmt"
	"time"
)

// CheckRun represents a row in the check_runs table.
type CheckRun struct {
	ID              int64
	File            string
	Group           string
	Cases           int
	FailedCases     int
	Violations      int
	Passed          bool
	IgnoreNonStrict bool
	Summary         string
	Findings        string
	Timestamp       time.Time
}

// LogCheckRun inserts a check run record and returns its id.
// Findings must be a JSON document or empty.
func (d *DB) LogCheckRun(ctx context.Context, r CheckRun) (int64, error) {
	var findings *string
	if r.Findings != "" {
		findings = &r.Findings
	}
	var id int64
	err := d.conn.QueryRow(ctx,
		`INSERT INTO check_runs (file, group_name, cases, failed_cases, violations, passed, ignore_non_strict, summary, findings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		 RETURNING id`,
		r.File, r.Group, r.Cases, r.FailedCases, r.Violations, r.Passed, r.IgnoreNonStrict, r.Summary, findings,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("log check run: %w", err)
	}
	return id, nil
}

// GetCheckHistory returns the most recent check runs, newest first.
func (d *DB) GetCheckHistory(ctx context.Context, limit int) ([]CheckRun, error) {
	rows, err := d.conn.Query(ctx,
		`SELECT id, file, group_name, cases, failed_cases, violations, passed, ignore_non_strict,
		        COALESCE(summary, ''), COALESCE(findings::text, ''), timestamp
		 FROM check_runs ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get check history: %w", err)
	}
	defer rows.Close()

	var runs []CheckRun
	for rows.Next() {
		var r CheckRun
		if err := rows.Scan(&r.ID, &r.File, &r.Group, &r.Cases, &r.FailedCases, &r.Violations,
			&r.Passed, &r.IgnoreNonStrict, &r.Summary, &r.Findings, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan check history: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
