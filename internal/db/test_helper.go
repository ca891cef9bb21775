package db

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SetupTestDB opens a migrated in-memory SQLite database that is closed
// when the test ends.
func SetupTestDB(t testing.TB) *DB {
	t.Helper()

	d, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := d.Migrate(context.Background()); err != nil {
		d.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// CreateTestUser inserts a user with the given cash and password "secret",
// returning its id.
func CreateTestUser(t testing.TB, d *DB, username string, cash decimal.Decimal) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var userID int64
	err = d.QueryRowContext(context.Background(),
		d.Rebind("INSERT INTO users (username, hash, cash, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		username, string(hash), cash, time.Now().UTC(),
	).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return userID
}
