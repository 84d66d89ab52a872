// Package repositories provides data access over the gorm models.
package repositories

import (
	"context"
	"errors"

	"github.com/bbernstein/lacylights-console/internal/database/models"
	"github.com/lucsky/cuid"
	"gorm.io/gorm"
)

// RecordRepository handles storage record data access.
type RecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// FindByKey returns a record by key, or nil when it does not exist.
func (r *RecordRepository) FindByKey(ctx context.Context, key string) (*models.Record, error) {
	var record models.Record
	result := r.db.WithContext(ctx).First(&record, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

// Upsert creates or updates a record by key.
func (r *RecordRepository) Upsert(ctx context.Context, key, value string) (*models.Record, error) {
	var record models.Record

	result := r.db.WithContext(ctx).First(&record, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		record = models.Record{
			ID:    cuid.New(),
			Key:   key,
			Value: value,
		}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	record.Value = value
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
