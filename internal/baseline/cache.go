// ABOUTME: Badger-backed persistent cache for computed baselines.
// ABOUTME: Entries expire via TTL matching the staleness policy.
package baseline

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// Cache is a persistent key/value cache with per-entry TTL.
type Cache struct {
	db *badger.DB
}

// OpenCache opens or creates a badger cache at the given directory.
func OpenCache(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open baseline cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// OpenInMemoryCache opens a non-persistent cache, used in tests and by
// callers that do not want cache state on disk.
func OpenInMemoryCache() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory baseline cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached value for key, or ok=false when absent or expired.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return out, true, nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes one key.
func (c *Cache) Delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// DeletePrefix removes every key with the given prefix.
func (c *Cache) DeletePrefix(prefix string) error {
	if err := c.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("cache delete prefix: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
