package cachedstore

import (
	"context"
	"errors"
	"testing"

	"github.com/lcdata/scancache/internal/store"
)

// fakeBackend is a simple in-memory backend for testing.
type fakeBackend struct {
	data   map[store.Key][]byte
	hits   int64
	misses int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[store.Key][]byte)}
}

func (b *fakeBackend) Get(key store.Key) ([]byte, bool) {
	if data, ok := b.data[key]; ok {
		b.hits++
		return data, true
	}
	b.misses++
	return nil, false
}

func (b *fakeBackend) Set(key store.Key, data []byte) {
	b.data[key] = data
}

func (b *fakeBackend) Remove(key store.Key) {
	delete(b.data, key)
}

func (b *fakeBackend) RemoveSource(source string) {
	for key := range b.data {
		if key.Source == source {
			delete(b.data, key)
		}
	}
}

func (b *fakeBackend) Purge() {
	b.data = make(map[store.Key][]byte)
}

func (b *fakeBackend) Stats() Stats {
	return Stats{Hits: b.hits, Misses: b.misses, Size: len(b.data)}
}

// fakeStore is a simple store for testing.
type fakeStore struct {
	data map[store.Key][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[store.Key][]byte)}
}

func (s *fakeStore) WriteShard(ctx context.Context, key store.Key, data []byte) error {
	s.data[key] = data
	return nil
}

func (s *fakeStore) ReadShard(ctx context.Context, key store.Key) (store.Blob, error) {
	if data, ok := s.data[key]; ok {
		return store.MemBlob(data), nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) RemoveSource(ctx context.Context, source string) error {
	for key := range s.data {
		if key.Source == source {
			delete(s.data, key)
		}
	}
	return nil
}

func (s *fakeStore) List(ctx context.Context) ([]store.Entry, error) {
	entries := make([]store.Entry, 0, len(s.data))
	for key, data := range s.data {
		entries = append(entries, store.Entry{Key: key, Size: int64(len(data))})
	}
	return entries, nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.data = make(map[store.Key][]byte)
	return nil
}

func (s *fakeStore) Close() error {
	return nil
}

func key(source string, index int) store.Key {
	return store.Key{Source: source, Stream: "ms1_indexed", Index: index}
}

func TestStore_CacheHit(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()

	// Pre-populate cache.
	backend.Set(key("run", 1), []byte("cached data"))

	s := New(underlying, backend)
	blob, err := s.ReadShard(context.Background(), key("run", 1))
	if err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	defer blob.Close()

	if string(blob.Bytes()) != "cached data" {
		t.Errorf("ReadShard() = %q, want %q", blob.Bytes(), "cached data")
	}
	if stats := s.Stats(); stats.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", stats.Hits)
	}
}

func TestStore_CacheMiss(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()

	// Put data in the underlying store, not the cache.
	underlying.data[key("run", 1)] = []byte("underlying data")

	s := New(underlying, backend)
	blob, err := s.ReadShard(context.Background(), key("run", 1))
	if err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	defer blob.Close()

	if string(blob.Bytes()) != "underlying data" {
		t.Errorf("ReadShard() = %q, want %q", blob.Bytes(), "underlying data")
	}
	if _, ok := backend.data[key("run", 1)]; !ok {
		t.Error("data should be cached after miss")
	}
	if stats := s.Stats(); stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", stats.Misses)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New(newFakeStore(), newFakeBackend())
	_, err := s.ReadShard(context.Background(), key("run", 999))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadShard() error = %v, want ErrNotFound", err)
	}
}

func TestWriteShard_DropsCachedEntry(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	s := New(underlying, backend)
	ctx := context.Background()

	backend.Set(key("run", 0), []byte("stale"))

	if err := s.WriteShard(ctx, key("run", 0), []byte("fresh")); err != nil {
		t.Fatalf("WriteShard() error = %v", err)
	}

	blob, err := s.ReadShard(ctx, key("run", 0))
	if err != nil {
		t.Fatalf("ReadShard() error = %v", err)
	}
	defer blob.Close()
	if string(blob.Bytes()) != "fresh" {
		t.Errorf("ReadShard() after write = %q, want %q", blob.Bytes(), "fresh")
	}
}

func TestRemoveSource_DropsCachedEntries(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	s := New(underlying, backend)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.WriteShard(ctx, key("gone", i), []byte("x")); err != nil {
			t.Fatalf("WriteShard() error = %v", err)
		}
		// Populate the cache.
		if _, err := s.ReadShard(ctx, key("gone", i)); err != nil {
			t.Fatalf("ReadShard() error = %v", err)
		}
	}
	backend.Set(key("keep", 0), []byte("y"))

	if err := s.RemoveSource(ctx, "gone"); err != nil {
		t.Fatalf("RemoveSource() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, ok := backend.data[key("gone", i)]; ok {
			t.Errorf("shard %d still cached after RemoveSource", i)
		}
	}
	if _, ok := backend.data[key("keep", 0)]; !ok {
		t.Error("unrelated source was dropped from the cache")
	}
}

func TestClear_PurgesCache(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	s := New(underlying, backend)
	ctx := context.Background()

	backend.Set(key("run", 0), []byte("x"))
	underlying.data[key("run", 1)] = []byte("y")

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(backend.data) != 0 {
		t.Error("cache not purged by Clear")
	}
	if len(underlying.data) != 0 {
		t.Error("underlying store not cleared")
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"50% hit rate", 5, 5, 50},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
