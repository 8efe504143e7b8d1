package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a migrated single-connection write pool on a
// throwaway database file and registers cleanup. Repository tests run
// against this one pool; the write/read pair split has its own tests.
func OpenTestSQLite(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowdeck.sqlite")
	writeDB, err := openPool(path, true, 1)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() { _ = writeDB.Close() })

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return writeDB
}
