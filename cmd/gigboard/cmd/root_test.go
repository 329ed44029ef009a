package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig creates a prisma.conf for a SQLite file in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prisma.conf")
	conf := fmt.Sprintf("[datasource]\nurl = \"file:%s\"\n", filepath.Join(dir, "gigboard.db"))
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))
	return path
}

// run executes the root command. Flag variables outlive a run, so they are
// reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile, verbose = "", false
	pushDryRun, pushForceReset = false, false
	statsTop, statsEvery = 5, 0
	schemaWrite = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDBPush(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "--config", conf, "db", "push", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[+] Added table `User`")
	assert.Contains(t, out, "statement(s) would run.")

	out, err = run(t, "--config", conf, "db", "tables")
	require.NoError(t, err)
	assert.NotContains(t, out, "User", "dry run must not create tables")

	out, err = run(t, "--config", conf, "db", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "[+] Added table `Assignment`")

	out, err = run(t, "--config", conf, "db", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "already in sync")

	out, err = run(t, "--config", conf, "db", "tables")
	require.NoError(t, err)
	for _, table := range []string{"User", "Assignment", "Bid", "Submission", "Payment", "Review", "Message", "Dispute"} {
		assert.Contains(t, out, table)
	}
}

func TestDBSQL(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "--config", conf, "db", "sql")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")
	assert.Contains(t, out, "Dispute")
}

func TestDBSchema(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "--config", conf, "db", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "model Assignment {")
	assert.Contains(t, out, "enum DisputeStatus {")

	_, err = run(t, "--config", conf, "db", "schema", "--write")
	require.NoError(t, err)
	written, err := os.ReadFile(filepath.Join(filepath.Dir(conf), "prisma", "schema.prisma"))
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestDBHealth(t *testing.T) {
	conf := writeConfig(t)

	out, err := run(t, "--config", conf, "db", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: healthy")
	assert.Contains(t, out, "Provider: sqlite")
}

func TestSeedAndStats(t *testing.T) {
	conf := writeConfig(t)
	_, err := run(t, "--config", conf, "db", "push")
	require.NoError(t, err)

	out, err := run(t, "--config", conf, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "open:      linear-algebra-homework-")
	assert.Contains(t, out, "completed: essay-on-the-french-revolution-")
	assert.Contains(t, out, "disputed:  physics-lab-report-")

	out, err = run(t, "--config", conf, "stats", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "COMPLETED")
	assert.Contains(t, out, "DISPUTED")
	assert.Contains(t, out, "72.00", "released: the accepted bid of the completed essay")
	assert.Contains(t, out, "Active disputes: 1")
	assert.Contains(t, out, "ben")

	// users are upserted: a second seed only adds assignments
	_, err = run(t, "--config", conf, "seed")
	require.NoError(t, err)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.conf"), "db", "health")
	assert.Error(t, err)
}
