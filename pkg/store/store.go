// Package store implements the persistent key-value store backing the store
// module, a bbolt database shared between engine instances.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNoKey is returned by Get when the key does not exist.
var ErrNoKey = errors.New("no such key")

const bucketSharedVar = "shared-vars"

// Store is a handle to the database. It is safe for concurrent use; bbolt
// serializes writers internally.
type Store struct {
	db *bolt.DB
}

// Open opens the database at path, creating the file and the bucket when
// absent. Opening blocks on the file lock held by another process; the
// timeout turns that into an error instead of waiting forever.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSharedVar))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Get gets the value of a shared variable.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNoKey
		}
		value = string(v)
		return nil
	})
	return value, err
}

// Set sets the value of a shared variable.
func (s *Store) Set(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.Put([]byte(key), []byte(value))
	})
}

// Del deletes a shared variable. Deleting an absent key is not an error.
func (s *Store) Del(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.Delete([]byte(key))
	})
}

// Has reports whether the key exists.
func (s *Store) Has(key string) (bool, error) {
	var has bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		has = b.Get([]byte(key)) != nil
		return nil
	})
	return has, err
}

// Keys returns all keys, in byte order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Shared caches one open handle per path, so that several engines configured
// with the same database file share a single bbolt instance instead of
// contending on the file lock.
var shared = struct {
	sync.Mutex
	m map[string]*Store
}{m: make(map[string]*Store)}

// OpenShared returns the cached handle for path, opening it on first use.
func OpenShared(path string) (*Store, error) {
	shared.Lock()
	defer shared.Unlock()
	if s, ok := shared.m[path]; ok {
		return s, nil
	}
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	shared.m[path] = s
	return s, nil
}
