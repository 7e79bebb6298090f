// Package cache memoizes tree and graph results across repomap runs.
//
// # Overview
//
// Building a tree or graph is cheap compared to decoding and validating a
// large payload, but the watch mode and the interactive browser rebuild on
// every change. Results are stored under content-addressed keys: the key of
// a graph is derived from the hash of the payload's files and dependencies
// plus every option that influences the layout. An unchanged payload hits the
// cache; any change produces a new key.
//
// Caching is an optimization only. Every backend may drop entries at any
// time and callers must treat a miss, an expired entry or a backend error
// as "compute it again".
//
// # Backends
//
//   - [NullCache]: stores nothing (--no-cache)
//   - [FileCache]: one JSON file per entry under the XDG cache directory
//   - [MemoryCache]: bounded in-process LRU, for watch mode
//   - [RedisCache]: shared cache for teams running repomap in CI
//
// # Keys
//
// A [Keyer] derives keys; [ScopedKeyer] prefixes them so several projects or
// users can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached data and true on a hit.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values. Keys are content-addressed, so entries never
// go stale; the TTL only bounds disk and memory use.
const (
	TTLTree  = 7 * 24 * time.Hour
	TTLGraph = 7 * 24 * time.Hour
)

// Keyer derives cache keys for builder results.
type Keyer interface {
	// TreeKey returns the key of the tree built from a payload.
	TreeKey(payloadHash string) string

	// GraphKey returns the key of the graph built from a payload with opts.
	GraphKey(payloadHash string, opts GraphKeyOpts) string
}

// GraphKeyOpts holds the graph options that change the built graph.
type GraphKeyOpts struct {
	NodeCap      int               `json:"node_cap"`
	Columns      int               `json:"columns"`
	CellWidth    int               `json:"cell_width"`
	CellHeight   int               `json:"cell_height"`
	EdgeType     string            `json:"edge_type"`
	DefaultColor string            `json:"default_color"`
	Colors       map[string]string `json:"colors,omitempty"`
}

// DefaultKeyer derives keys as "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(payloadHash string) string {
	return hashKey("tree", payloadHash)
}

// GraphKey implements [Keyer]. Color maps are encoded with sorted keys, so
// equal option sets produce equal keys.
func (DefaultKeyer) GraphKey(payloadHash string, opts GraphKeyOpts) string {
	return hashKey("graph", payloadHash, opts)
}

var _ Keyer = DefaultKeyer{}

// WithTTL returns a cache that stores every entry with ttl, ignoring the
// ttl passed to Set. A ttl <= 0 returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &fixedTTL{Cache: c, ttl: ttl}
}

type fixedTTL struct {
	Cache
	ttl time.Duration
}

func (c *fixedTTL) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}
