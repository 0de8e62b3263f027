package cachedstore

import (
	"context"

	"github.com/lcdata/scancache/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store with read-through caching. Writes and removals
// pass through to the underlying store and keep the cache coherent.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// WriteShard writes through to the underlying store and drops any cached
// copy of the shard.
func (s *Store) WriteShard(ctx context.Context, key store.Key, data []byte) error {
	if err := s.underlying.WriteShard(ctx, key, data); err != nil {
		return err
	}
	s.backend.Remove(key)
	return nil
}

// ReadShard reads a shard, checking the cache first. On a miss the shard is
// copied into the cache, trading memory for repeated-read speed.
func (s *Store) ReadShard(ctx context.Context, key store.Key) (store.Blob, error) {
	if data, ok := s.backend.Get(key); ok {
		return store.MemBlob(data), nil
	}

	// Cache miss - read from the underlying store.
	blob, err := s.underlying.ReadShard(ctx, key)
	if err != nil {
		return nil, err
	}

	// Copy before caching; the blob may be memory-mapped and is released here.
	data := make([]byte, len(blob.Bytes()))
	copy(data, blob.Bytes())
	if err := blob.Close(); err != nil {
		return nil, err
	}

	s.backend.Set(key, data)
	return store.MemBlob(data), nil
}

// RemoveSource removes all shards of source from the underlying store.
// Cached entries for the source are dropped even if the removal fails.
func (s *Store) RemoveSource(ctx context.Context, source string) error {
	err := s.underlying.RemoveSource(ctx, source)
	s.backend.RemoveSource(source)
	return err
}

// List lists shards in the underlying store.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	return s.underlying.List(ctx)
}

// Clear clears the underlying store and purges the cache.
func (s *Store) Clear(ctx context.Context) error {
	err := s.underlying.Clear(ctx)
	s.backend.Purge()
	return err
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
