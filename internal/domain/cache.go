package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the interface (port) for key/value state shared between requests.
type Cache interface {
	// Get retrieves an item from the cache.
	// It returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set adds an item to the cache, overwriting an existing item if one exists.
	// If expiration is 0, the item does not expire.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// GetDel atomically retrieves and removes an item.
	// It returns ErrCacheMiss if the key is not found.
	GetDel(ctx context.Context, key string) (string, error)

	// DeleteIfEqual removes key only while it still holds expected and reports
	// whether it did. The comparison and delete are atomic.
	DeleteIfEqual(ctx context.Context, key, expected string) (bool, error)

	// Delete removes an item from the cache.
	// It should not return an error if the key is not found.
	Delete(ctx context.Context, key string) error

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}
