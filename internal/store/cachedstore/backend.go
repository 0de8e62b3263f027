// Package cachedstore provides a caching wrapper for Store implementations.
package cachedstore

import "github.com/lcdata/scancache/internal/store"

// Backend defines the interface for cache storage backends.
// Implementations handle bounded storage and eviction.
type Backend interface {
	// Get retrieves a cached shard. Returns nil, false if not found.
	Get(key store.Key) ([]byte, bool)

	// Set stores a shard in the cache.
	Set(key store.Key, data []byte)

	// Remove drops a single shard from the cache if present.
	Remove(key store.Key)

	// RemoveSource drops every cached shard belonging to source.
	RemoveSource(source string)

	// Purge drops all cached shards.
	Purge()

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
