// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/lcdata/scancache/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu     sync.RWMutex
	shards map[store.Key][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		shards: make(map[store.Key][]byte),
	}
}

// WriteShard stores a copy of data under key, replacing any previous shard.
func (s *Store) WriteShard(ctx context.Context, key store.Key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards[key] = copied
	return nil
}

// ReadShard reads a shard from memory.
// The returned blob aliases the stored bytes; callers must not mutate them.
func (s *Store) ReadShard(ctx context.Context, key store.Key) (store.Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.shards[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return store.MemBlob(data), nil
}

// RemoveSource deletes every shard belonging to source.
func (s *Store) RemoveSource(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.shards {
		if key.Source == source {
			delete(s.shards, key)
		}
	}
	return nil
}

// List returns every stored shard, ordered by source, stream and index.
func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]store.Entry, 0, len(s.shards))
	for key, data := range s.shards {
		entries = append(entries, store.Entry{Key: key, Size: int64(len(data))})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Stream != b.Stream {
			return a.Stream < b.Stream
		}
		return a.Index < b.Index
	})
	return entries, nil
}

// Clear drops every stored shard.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards = make(map[store.Key][]byte)
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
