// Package cache provides the read-cache abstraction and its backends.
//
// A Store holds opaque serialized values under string keys with a per-entry
// TTL. Backends: Redis for a shared cache across instances, and an in-process
// sharded cache for single-node deployments and tests. The caller owns backend
// client lifecycles.
package cache

import (
	"context"
	"time"
)

// Store is the minimal contract the cache-aside layer needs.
//
// Get reports a miss with found=false; an error means the backend itself
// failed, which callers are expected to treat as a miss (fail-open).
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report reachability. Backends
// without it (the in-process store) are treated as always reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deterministic key names for the cacheable read shapes. Search and genre
// filters are deliberately not cached: their parameter space would explode
// key cardinality.
const (
	KeyAllEntries = "all-entries"
)

// EntryKey returns the cache key for a single entry.
func EntryKey(id string) string {
	return "entry-" + id
}

// KindKey returns the cache key for a per-kind listing.
func KindKey(kind string) string {
	return "entries-of-kind-" + kind
}
