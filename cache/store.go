// Package cache implements the optional persistent compiled-shader
// cache: a BLAKE3-keyed key/value store backed by an embedded bbolt
// database, tolerant of a missing or corrupt file.
package cache

import (
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "shaderchain-cache"

// Store is a key/value cache of compiled shader artifacts, keyed by
// Key. It is always usable: when no path is given, or the on-disk
// database cannot be opened, Store silently runs as an in-memory,
// process-lifetime-only cache instead of failing the caller.
type Store struct {
	db  *bbolt.DB
	mem map[string][]byte
}

// Open returns a Store backed by the bbolt database at path. An empty
// path, or any failure to open or initialize the database, degrades to
// an in-memory store rather than returning an error — the persistent
// cache is purely an optimization, never a load-bearing dependency.
func Open(path string) *Store {
	if path == "" {
		Logger().Info("no cache path configured, using in-memory shader cache")
		return &Store{mem: make(map[string][]byte)}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		Logger().Warn("cache file unavailable, falling back to in-memory cache", "path", path, "err", err)
		return &Store{mem: make(map[string][]byte)}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		Logger().Warn("cache bucket init failed, falling back to in-memory cache", "path", path, "err", err)
		db.Close()
		return &Store{mem: make(map[string][]byte)}
	}

	Logger().Info("opened persistent shader cache", "path", path)
	return &Store{db: db}
}

// inMemory reports whether this Store degraded to the in-memory
// fallback (no persistent backing database).
func (s *Store) inMemory() bool {
	return s.db == nil
}

// Get returns the cached bytes for key, if present.
func (s *Store) Get(key []byte) ([]byte, bool) {
	if s.inMemory() {
		v, ok := s.mem[string(key)]
		return v, ok
	}

	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		Logger().Warn("cache read failed", "err", err)
		return nil, false
	}
	return out, out != nil
}

// Put stores value under key. A write failure is logged and otherwise
// swallowed: a cache miss next time is the only consequence, matching
// the persistent cache's purely-advisory role.
func (s *Store) Put(key, value []byte) {
	if s.inMemory() {
		s.mem[string(key)] = append([]byte(nil), value...)
		return
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(key, value)
	})
	if err != nil {
		Logger().Warn("cache write failed", "err", err)
	}
}

// Load is Get keyed by kind and a set of input byte slices, hashed
// with Key. Convenience wrapper for the common "compiled artifact"
// cache usage in the reflect and filterchain packages.
func (s *Store) Load(kind string, inputs ...[]byte) ([]byte, bool) {
	return s.Get(Key(kind, inputs...))
}

// Save is Put keyed the same way as Load.
func (s *Store) Save(kind string, value []byte, inputs ...[]byte) {
	s.Put(Key(kind, inputs...), value)
}

// Close releases the backing database, if any. Safe to call on an
// in-memory Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
