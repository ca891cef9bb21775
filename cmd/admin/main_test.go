package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/store"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	cmd := newRootCmd(strings.NewReader(stdin), stdout)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	out, err := execute(t, "", "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema up to date (sqlite)")

	// Second run is a no-op.
	_, err = execute(t, "", "migrate", "--db", dbPath)
	require.NoError(t, err)
}

func TestAddUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "adduser.db")

	out, err := execute(t, "", "adduser", "--db", dbPath, "--user", "alice", "--password", "secret", "--cash", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "User alice created successfully")

	d, err := db.OpenSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	defer d.Close()

	user, err := store.NewUserStore(d).ByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(user.Cash))
}

func TestAddUserDuplicate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dup.db")
	args := []string{"adduser", "--db", dbPath, "--user", "alice", "--password", "secret"}

	_, err := execute(t, "", args...)
	require.NoError(t, err)

	_, err = execute(t, "", args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddUserPromptsForPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prompt.db")

	out, err := execute(t, "typed_secret\n", "adduser", "--db", dbPath, "--user", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "User bob created successfully")
}

func TestAddUserRejects(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reject.db")

	_, err := execute(t, "", "adduser", "--db", dbPath, "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"user" not set`)

	_, err = execute(t, "   \n", "adduser", "--db", dbPath, "--user", "carol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")

	_, err = execute(t, "", "adduser", "--db", dbPath, "--user", "carol", "--password", "x", "--cash", "-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cash amount")
}

func TestHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	_, err := execute(t, "", "adduser", "--db", dbPath, "--user", "alice", "--password", "secret")
	require.NoError(t, err)

	ctx := context.Background()
	d, err := db.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	user, err := store.NewUserStore(d).ByUsername(ctx, "alice")
	require.NoError(t, err)
	ledger := store.NewLedger(d)
	_, err = ledger.Record(ctx, d, user.ID, "AAA", 10, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = ledger.Record(ctx, d, user.ID, "AAA", -4, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	out, err := execute(t, "", "history", "--db", dbPath, "--user", "alice")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SYMBOL")
	assert.Contains(t, lines[1], "SELL")
	assert.Contains(t, lines[1], "150.00")
	assert.Contains(t, lines[2], "BUY")
	assert.Contains(t, lines[2], "100.00")

	_, err = execute(t, "", "history", "--db", dbPath, "--user", "nobody")
	require.Error(t, err)
}
