package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TypedCache provides type-safe caching operations using generics.
// It wraps a Cacher implementation and handles JSON serialization.
type TypedCache[T any] struct {
	cache      Cacher
	defaultTTL time.Duration
}

// NewTypedCache creates a new TypedCache wrapping the given cache implementation.
func NewTypedCache[T any](cache Cacher, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found, zero value and false otherwise.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// Set stores a value in the cache with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// GetMultiple retrieves multiple values from the cache.
// Returns a map of found keys to their values; missing keys are absent.
func (c *TypedCache[T]) GetMultiple(ctx context.Context, keys []string) map[string]*T {
	result := make(map[string]*T, len(keys))
	for _, key := range keys {
		if value, ok := c.Get(ctx, key); ok {
			result[key] = value
		}
	}
	return result
}

// SetMultiple stores multiple values in the cache.
func (c *TypedCache[T]) SetMultiple(ctx context.Context, items map[string]*T) error {
	for key, value := range items {
		if err := c.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
