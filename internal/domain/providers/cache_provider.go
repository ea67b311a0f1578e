package providers

import (
	"context"
)

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// CountByPrefix counts keys under a prefix (used for the active-session
	// metric in admin reports)
	CountByPrefix(ctx context.Context, prefix string) (int, error)

	// Increment atomically bumps a counter, setting its expiry on first
	// write, and returns the new value (used by rate limiting)
	Increment(ctx context.Context, key string, expirationSeconds int) (int64, error)
}
