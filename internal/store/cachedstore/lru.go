package cachedstore

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lcdata/scancache/internal/stats"
	"github.com/lcdata/scancache/internal/store"
)

// Compile-time check that LRUBackend implements Backend.
var _ Backend = (*LRUBackend)(nil)

// LRUBackend is a thread-safe in-memory backend with LRU eviction.
type LRUBackend struct {
	cache     *lru.Cache[store.Key, []byte]
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRU creates an LRU backend holding at most capacity shards.
// The collector is optional; if nil, a no-op collector is used.
func NewLRU(capacity int, collector stats.Collector) (*LRUBackend, error) {
	c, err := lru.New[store.Key, []byte](capacity)
	if err != nil {
		return nil, err
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &LRUBackend{cache: c, collector: collector}, nil
}

// Get retrieves shard data from the cache.
func (b *LRUBackend) Get(key store.Key) ([]byte, bool) {
	val, ok := b.cache.Get(key)
	if ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, 1)
		return val, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, 1)
	return nil, false
}

// Set stores shard data in the cache.
func (b *LRUBackend) Set(key store.Key, data []byte) {
	b.cache.Add(key, data)
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.cache.Len()))
}

// Remove drops a single shard from the cache.
func (b *LRUBackend) Remove(key store.Key) {
	b.cache.Remove(key)
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.cache.Len()))
}

// RemoveSource drops every cached shard belonging to source.
func (b *LRUBackend) RemoveSource(source string) {
	for _, key := range b.cache.Keys() {
		if key.Source == source {
			b.cache.Remove(key)
		}
	}
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.cache.Len()))
}

// Purge drops all cached shards.
func (b *LRUBackend) Purge() {
	b.cache.Purge()
	b.collector.SetGauge(stats.MetricCacheSize, 0)
}

// Stats returns current cache statistics.
func (b *LRUBackend) Stats() Stats {
	return Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.cache.Len(),
	}
}

// Len returns the number of cached shards.
func (b *LRUBackend) Len() int {
	return b.cache.Len()
}
