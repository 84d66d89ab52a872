package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketRecords = []byte("records")

// BoltStorage stores records in a single BoltDB bucket.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens or creates a BoltDB file at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketRecords)
		}
		// Bytes are only valid inside the transaction
		if data := b.Get([]byte(key)); data != nil {
			value, ok = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (s *BoltStorage) Set(_ context.Context, key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketRecords)
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}
