// Package models contains the database model definitions.
// The console keeps its state as opaque string records, mirroring the
// key/value layout of browser local storage.
package models

import (
	"time"
)

// Record is a single string-keyed storage entry.
// Table: records
type Record struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Record) TableName() string { return "records" }

// All returns every model that must be migrated at startup.
func All() []interface{} {
	return []interface{}{
		&Record{},
	}
}
