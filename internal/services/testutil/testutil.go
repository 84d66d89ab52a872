// Package testutil provides shared test utilities for integration tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bbernstein/lacylights-console/internal/database/models"
	"github.com/bbernstein/lacylights-console/internal/database/repositories"
	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/storage"
)

// TestDB holds the test database, its repository and the storage on top.
type TestDB struct {
	DB         *gorm.DB
	RecordRepo *repositories.RecordRepository
	Storage    *storage.DatabaseStorage
}

// SetupTestDB creates an in-memory SQLite database for testing.
// It returns a TestDB with the record storage initialized and a cleanup function.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Each pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	repo := repositories.NewRecordRepository(db)
	testDB := &TestDB{
		DB:         db,
		RecordRepo: repo,
		Storage:    storage.NewDatabaseStorage(repo),
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}

	return testDB, cleanup
}

// NewStore creates a scene store backed by the test database.
func (tdb *TestDB) NewStore(t *testing.T, sink scene.Sink) *scene.Store {
	t.Helper()
	return scene.New(context.Background(), scene.Config{Storage: tdb.Storage, Sink: sink})
}

// UniqueName generates a unique name for testing.
func UniqueName(prefix string) string {
	return prefix + "-" + cuid.New()[:8]
}
