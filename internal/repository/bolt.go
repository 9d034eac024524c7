// Package repository provides the durable key-value backends the widget
// persists its state into: a local bbolt file and a DynamoDB table.
package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "widget_state"

// BoltStore is a file-backed key-value store, the local analog of the
// browser-scoped storage the widget was designed around.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the state file at path.
func OpenBolt(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("repository: bolt path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("repository: create state dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("repository: open bolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Get returns the value stored under key, reporting whether it exists.
func (s *BoltStore) Get(key string) ([]byte, bool, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("repository: Get %q: %w", key, err)
	}
	return out, found, nil
}

// Put stores value under key, replacing any previous value.
func (s *BoltStore) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("repository: Put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *BoltStore) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("repository: Delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
