package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched page bodies keyed by URL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a URL
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "egmembers:v1:" + hex.EncodeToString(hash[:])
}

// Noop is a Cache that never stores anything
type Noop struct{}

// Get always misses
func (Noop) Get(string) ([]byte, bool) { return nil, false }

// Set discards the value
func (Noop) Set(string, []byte, time.Duration) error { return nil }

// Delete does nothing
func (Noop) Delete(string) error { return nil }

// Clear does nothing
func (Noop) Clear() error { return nil }
