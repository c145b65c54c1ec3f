// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"github.com/capital/finance/pkg/config"
	"github.com/capital/finance/pkg/database"
	"gorm.io/gorm"
)

// New returns a migrated in-memory sqlite database closed at test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(config.Database{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
