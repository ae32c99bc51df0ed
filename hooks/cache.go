package hooks

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketResults = []byte("results")

// Cache persists hook results across processes. Entries carry the
// config file's modification time; a newer config invalidates every
// stored result on read.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (or creates) the result database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

type entryJSON struct {
	ConfigMtime int64  `json:"config_mtime"`
	Output      string `json:"output"`
	RanAt       int64  `json:"ran_at"`
}

// Put stores the result of one hook run keyed by hook name.
func (c *Cache) Put(name string, configMtime time.Time, r Result) error {
	data, err := json.Marshal(entryJSON{
		ConfigMtime: configMtime.UnixNano(),
		Output:      r.Output,
		RanAt:       r.RanAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketResults)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
}

// Get retrieves a stored result. It returns ok=false when no entry
// exists or the entry predates configMtime.
func (c *Cache) Get(name string, configMtime time.Time) (Result, bool, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return nil
		}
		// copy out, bbolt slices are only valid within the tx
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return Result{}, false, err
	}
	if data == nil {
		return Result{}, false, nil
	}
	var e entryJSON
	if err := json.Unmarshal(data, &e); err != nil {
		return Result{}, false, fmt.Errorf("unmarshal result: %w", err)
	}
	if e.ConfigMtime < configMtime.UnixNano() {
		return Result{}, false, nil
	}
	return Result{Output: e.Output, RanAt: time.Unix(0, e.RanAt), Cached: true}, true, nil
}

// Wipe drops every stored result.
func (c *Cache) Wipe() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketResults); err == bolt.ErrBucketNotFound {
			return nil
		} else {
			return err
		}
	})
}
