package repositories

import (
	"context"
	"testing"

	"github.com/bbernstein/lacylights-console/internal/database/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing repositories.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Record{}))
	return db
}

func TestRecordRepository_UpsertCreatesThenUpdates(t *testing.T) {
	repo := NewRecordRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.Upsert(ctx, "dmx_scene_v1", "[]")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "[]", created.Value)

	updated, err := repo.Upsert(ctx, "dmx_scene_v1", `[{"id":"g1"}]`)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert should keep the existing row")
	assert.Equal(t, `[{"id":"g1"}]`, updated.Value)

	var count int64
	require.NoError(t, repo.db.Model(&models.Record{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordRepository_FindByKeyMissing(t *testing.T) {
	repo := NewRecordRepository(setupTestDB(t))

	record, err := repo.FindByKey(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRecordRepository_KeysAreIndependent(t *testing.T) {
	repo := NewRecordRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "dmx_scene_v1", "[]")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "channelNames", `["Intensity"]`)
	require.NoError(t, err)

	scene, err := repo.FindByKey(ctx, "dmx_scene_v1")
	require.NoError(t, err)
	require.NotNil(t, scene)
	assert.Equal(t, "[]", scene.Value)

	names, err := repo.FindByKey(ctx, "channelNames")
	require.NoError(t, err)
	require.NotNil(t, names)
	assert.Equal(t, `["Intensity"]`, names.Value)
}
