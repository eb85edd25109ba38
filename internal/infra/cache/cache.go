// Package cache provides a typed in-memory TTL cache backed by go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemory is a thread-safe, typed TTL cache.
type InMemory[T any] struct {
	store *gocache.Cache
}

// New creates a cache whose entries expire after ttl. Expired entries are
// purged every ttl as well.
func New[T any](ttl time.Duration) *InMemory[T] {
	return &InMemory[T]{store: gocache.New(ttl, ttl)}
}

// Get retrieves a value from the cache. Returns false if not found, expired or of another type.
func (c *InMemory[T]) Get(key string) (T, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set stores a value in the cache with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.store.SetDefault(key, value)
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.store.Delete(key)
}

// Flush drops every entry.
func (c *InMemory[T]) Flush() {
	c.store.Flush()
}
