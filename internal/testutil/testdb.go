package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/punchclock/internal/db"
)

// NewTestDB opens a migrated in-memory state database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}
