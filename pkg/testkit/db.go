package testkit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/database"
)

// NewDB opens a private in-memory sqlite database and migrates models into
// it. The pool is pinned to one connection that never expires, otherwise a
// second connection would see an empty database.
func NewDB(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
