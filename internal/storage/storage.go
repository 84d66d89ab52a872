// Package storage provides the string-keyed record store that holds the
// persisted scene and channel-name list.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/bbernstein/lacylights-console/internal/database/repositories"
)

// Storage is a string-keyed record store.
// Get reports ok=false when the key has never been written.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// DatabaseStorage stores records in the SQL records table.
type DatabaseStorage struct {
	repo *repositories.RecordRepository
}

// NewDatabaseStorage creates a Storage backed by a RecordRepository.
// The caller owns the underlying database connection.
func NewDatabaseStorage(repo *repositories.RecordRepository) *DatabaseStorage {
	return &DatabaseStorage{repo: repo}
}

// Get returns the value stored under key.
func (s *DatabaseStorage) Get(ctx context.Context, key string) (string, bool, error) {
	record, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read record %q: %w", key, err)
	}
	if record == nil {
		return "", false, nil
	}
	return record.Value, true, nil
}

// Set writes value under key.
func (s *DatabaseStorage) Set(ctx context.Context, key, value string) error {
	if _, err := s.repo.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the database is closed by its owner.
func (s *DatabaseStorage) Close() error {
	return nil
}

// MemoryStorage keeps records in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]string)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	return value, ok, nil
}

func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
