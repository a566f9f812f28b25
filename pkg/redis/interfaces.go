package redis

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested key does not exist
var ErrNotFound = errors.New("key not found")

// Client represents a Redis client interface for testing and abstraction
type Client interface {
	// Set sets a key to a value with an optional TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get gets the value of a key, returning ErrNotFound if it is absent
	Get(ctx context.Context, key string) (string, error)

	// SIsMember reports whether member belongs to the set at key
	SIsMember(ctx context.Context, key string, member interface{}) (bool, error)

	// Ping checks the connection to Redis
	Ping(ctx context.Context) error

	// Close closes the Redis connection
	Close() error
}
