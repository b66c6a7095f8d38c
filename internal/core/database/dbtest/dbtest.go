// Package dbtest opens throwaway in-memory sqlite databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"devprofile-api/internal/core/database"
)

// Open returns a private in-memory database. A single pooled connection keeps
// the database alive for the lifetime of the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
