package helpers

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/database"
)

// NewTestDB creates a new SQLite in-memory database for testing
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Cleanup after test
	if t != nil {
		t.Cleanup(func() {
			database.Close(db)
		})
	}

	return db
}

// NewFileTestDB creates a migrated SQLite database file in a temp dir so a
// second connection can contend for its write lock. It returns the path.
func NewFileTestDB(t *testing.T, busyTimeout time.Duration) (*gorm.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "office.db")

	db, err := database.NewConnection(&config.DatabaseConfig{
		Type:        "sqlite",
		Path:        path,
		BusyTimeout: busyTimeout,
	})
	if err != nil {
		t.Fatalf("failed to open file test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close(db)
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate file test database: %v", err)
	}
	return db, path
}
