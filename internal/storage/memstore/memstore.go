// Package memstore implements an in-process storage backend with per-key
// expiry. It is the default session storage for single-node deployments and
// the fake of choice in tests.
package memstore

import (
	"sync"
	"time"
)

type item struct {
	value  []byte
	expiry time.Time // zero means no expiry
}

// Storage is an in-memory key-value store. Implements the same Get/Set/
// Delete/Reset/Close contract as the gofiber storage family.
type Storage struct {
	mu   sync.RWMutex
	data map[string]item
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		data: make(map[string]item),
	}
}

// Get retrieves the value for the given key, nil when the key is absent or
// expired.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if !it.expiry.IsZero() && time.Now().After(it.expiry) {
		_ = s.Delete(key)
		return nil, nil
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)

	return out, nil
}

// Set stores the value under key. A zero exp stores without expiry.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	buf := make([]byte, len(val))
	copy(buf, val)

	it := item{value: buf}
	if exp > 0 {
		it.expiry = time.Now().Add(exp)
	}

	s.mu.Lock()
	s.data[key] = it
	s.mu.Unlock()

	return nil
}

// Delete removes the given key.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	return nil
}

// Reset removes all keys.
func (s *Storage) Reset() error {
	s.mu.Lock()
	s.data = make(map[string]item)
	s.mu.Unlock()

	return nil
}

// Close is a no-op.
func (s *Storage) Close() error { return nil }
