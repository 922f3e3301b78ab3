package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var boltBucket = []byte("entries")

// BoltCache stores entries in a single BoltDB file. Unlike [FileCache] it
// holds an exclusive lock on the file, so only one process may open it.
type BoltCache struct {
	db *bolt.DB
}

// NewBoltCache opens (or creates) the database at path. Opening fails after
// one second if another process holds the file.
func NewBoltCache(path string) (*BoltCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltCache{db: db}, nil
}

// Path returns the database file.
func (c *BoltCache) Path() string { return c.db.Path() }

// Get retrieves a value. Corrupt and expired entries are reported as misses
// and removed.
func (c *BoltCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(boltBucket).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return nil, false, ErrClosed
	}
	if err != nil || raw == nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil ||
		(!entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt)) {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value. A ttl of zero never expires.
func (c *BoltCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.update(func(b *bolt.Bucket) error {
		return b.Put([]byte(key), raw)
	})
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *BoltCache) Delete(ctx context.Context, key string) error {
	return c.update(func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
}

// Clear removes every entry and returns how many were deleted.
func (c *BoltCache) Clear() (int, error) {
	count := 0
	err := c.db.Update(func(tx *bolt.Tx) error {
		count = tx.Bucket(boltBucket).Stats().KeyN
		if err := tx.DeleteBucket(boltBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(boltBucket)
		return err
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return 0, ErrClosed
	}
	return count, err
}

// Close releases the database file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

func (c *BoltCache) update(fn func(*bolt.Bucket) error) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(boltBucket))
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

var _ Cache = (*BoltCache)(nil)
