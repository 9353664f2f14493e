package testutil

import (
	"database/sql"
	"testing"

	"github.com/constructbms/gantt/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory schedule database that lives until
// the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening schedule database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW returns the transaction runner the services use for database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
