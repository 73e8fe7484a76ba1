package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
)

// EnvDSN names the environment variable consulted for the recorder DSN.
const EnvDSN = "AUTOBAHNCHECK_DATABASE_URL"

// DB wraps a Postgres connection used to record check runs.
type DB struct {
	conn *pgx.Conn
}

// DSNFromEnv returns the recorder DSN from the environment, or "".
func DSNFromEnv() string {
	return os.Getenv(EnvDSN)
}

// Open connects to the database at dsn.
func Open(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (d *DB) Close(ctx context.Context) error {
	return d.conn.Close(ctx)
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS check_runs (
    id                BIGSERIAL PRIMARY KEY,
    file              TEXT NOT NULL,
    group_name        TEXT NOT NULL,
    cases             INTEGER NOT NULL,
    failed_cases      INTEGER NOT NULL,
    violations        INTEGER NOT NULL,
    passed            BOOLEAN NOT NULL,
    ignore_non_strict BOOLEAN NOT NULL DEFAULT FALSE,
    summary           TEXT,
    findings          JSONB,
    timestamp         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_check_runs_timestamp ON check_runs(timestamp DESC);
`

// Migrate applies the database schema. It is safe to call on every run.
func (d *DB) Migrate(ctx context.Context) error {
	var count int
	err := d.conn.QueryRow(ctx, "SELECT COUNT(*) FROM schema_version WHERE version = 1").Scan(&count)
	if err == nil && count > 0 {
		return nil
	}

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schemaV1); err != nil {
		return fmt.Errorf("apply schema v1: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_version (version) VALUES (1) ON CONFLICT DO NOTHING"); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit(ctx)
}
