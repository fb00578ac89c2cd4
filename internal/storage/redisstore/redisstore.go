// Package redisstore implements the fiber storage interface on top of
// go-redis, used as a session storage backend.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the redis connection settings.
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Storage is a redis backed storage. Implements the same Get/Set/Delete/
// Reset/Close contract as the gofiber storage family.
type Storage struct {
	client *redis.Client
}

// New creates a redis storage.
func New(cfg Config) *Storage {
	return &Storage{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Get retrieves the value for the given key, nil when the key is absent.
func (s *Storage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	return val, nil
}

// Set stores the value under key with an expiration. A zero exp stores
// without expiry.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes the given key.
func (s *Storage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset removes all keys from the selected database.
func (s *Storage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Conn returns the underlying client for pings and instrumentation.
func (s *Storage) Conn() *redis.Client {
	return s.client
}
