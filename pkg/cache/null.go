package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses. It stands in when caching is
// turned off or its backend could not be set up, and remembers why.
type NullCache struct {
	reason string
}

// NewNullCache returns a NullCache with no recorded reason.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a NullCache that records why caching is off,
// e.g. "redis unavailable".
func Disabled(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason reports why caching is off, or "" when no reason was given.
func (c *NullCache) Reason() string { return c.reason }

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

// DisabledReason reports whether c is a [NullCache] and, if so, why.
func DisabledReason(c Cache) (string, bool) {
	if n, ok := c.(*NullCache); ok {
		return n.reason, true
	}
	return "", false
}
