// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"starter-api/internal/database"
)

// New returns an in-memory sqlite database with all migrations applied.
// It is closed when the test finishes.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	log := zap.NewNop()
	db, err := database.NewConnection("sqlite://:memory:", log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, log))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Count returns the number of rows in table.
func Count(t testing.TB, db *gorm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
