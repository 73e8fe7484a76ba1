package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB connects to AUTOBAHNCHECK_TEST_DATABASE_URL and starts from an
// empty schema. Tests are skipped when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("AUTOBAHNCHECK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUTOBAHNCHECK_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d, err := Open(ctx, dsn)
	require.NoError(t, err)
	resetSchema(t, ctx, d)
	t.Cleanup(func() { d.Close(context.Background()) })
	return d
}

// resetSchema drops all tables and re-applies the schema.
func resetSchema(t *testing.T, ctx context.Context, d *DB) {
	t.Helper()
	for _, table := range []string{"check_runs", "schema_version"} {
		_, err := d.conn.Exec(ctx, "DROP TABLE IF EXISTS "+table)
		require.NoError(t, err, "drop table %s", table)
	}
	require.NoError(t, d.Migrate(ctx))
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres://user@localhost:notaport/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database dsn")
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv(EnvDSN, "postgres://ci@localhost/conformance")
	assert.Equal(t, "postgres://ci@localhost/conformance", DSNFromEnv())
}

func TestMigrate_Idempotent(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	require.NoError(t, d.Migrate(ctx))
	require.NoError(t, d.Migrate(ctx))

	var version int
	require.NoError(t, d.conn.QueryRow(ctx, "SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestLogCheckRun_History(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	first, err := d.LogCheckRun(ctx, CheckRun{
		File: "reports/index.json", Group: "ws-echo-server",
		Cases: 10, Passed: true, Summary: "[PASS] ws-echo-server",
	})
	require.NoError(t, err)

	second, err := d.LogCheckRun(ctx, CheckRun{
		File: "reports/index.json", Group: "ws-echo-server",
		Cases: 10, FailedCases: 1, Violations: 2, Passed: false, IgnoreNonStrict: true,
		Summary:  "[FAIL] ws-echo-server",
		Findings: `[{"case": "7.5.1", "field": "behavior", "status": "FAIL"}]`,
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := d.GetCheckHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].ID)
	assert.False(t, runs[0].Passed)
	assert.True(t, runs[0].IgnoreNonStrict)
	assert.Equal(t, 2, runs[0].Violations)
	assert.JSONEq(t, `[{"case": "7.5.1", "field": "behavior", "status": "FAIL"}]`, runs[0].Findings)
	assert.False(t, runs[0].Timestamp.IsZero())

	assert.Equal(t, first, runs[1].ID)
	assert.Empty(t, runs[1].Findings)

	limited, err := d.GetCheckHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
