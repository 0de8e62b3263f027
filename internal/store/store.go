// Package store defines the storage backend interface for shard
// payloads, keyed by (source, stream, shard index).
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a shard does not exist in the store.
var ErrNotFound = errors.New("store: shard not found")

// Key identifies one shard file within the cache.
type Key struct {
	// Source is the source dataset name: the final element of the
	// source path, extension included.
	Source string
	// Stream is the shard family within the source.
	Stream string
	// Index is the shard position within the stream.
	Index int
}

// Filename returns the flat cache filename for the key.
func (k Key) Filename() string {
	return fmt.Sprintf("%s.%s.shard_%d.cache", k.Source, k.Stream, k.Index)
}

// String implements fmt.Stringer for error context.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/shard %d", k.Source, k.Stream, k.Index)
}

// ParseFilename parses a shard filename back into its Key. The suffix
// .<stream>.shard_<i>.cache is stripped from the right, so source names
// containing dots parse correctly. ok is false for filenames that are
// not shard files.
func ParseFilename(name string) (Key, bool) {
	rest, ok := strings.CutSuffix(name, ".cache")
	if !ok {
		return Key{}, false
	}

	i := strings.LastIndex(rest, ".shard_")
	if i < 0 {
		return Key{}, false
	}
	index, err := strconv.Atoi(rest[i+len(".shard_"):])
	if err != nil || index < 0 {
		return Key{}, false
	}

	rest = rest[:i]
	j := strings.LastIndexByte(rest, '.')
	if j <= 0 || j == len(rest)-1 {
		return Key{}, false
	}
	return Key{Source: rest[:j], Stream: rest[j+1:], Index: index}, true
}

// Blob is one shard payload as read from a store. Bytes is valid only
// until Close; Close releases any backing resources, such as a memory
// mapping.
type Blob interface {
	Bytes() []byte
	Close() error
}

// MemBlob adapts a heap buffer to the Blob interface.
type MemBlob []byte

// Compile-time check that MemBlob implements Blob.
var _ Blob = MemBlob(nil)

// Bytes returns the buffer.
func (b MemBlob) Bytes() []byte { return b }

// Close is a no-op.
func (MemBlob) Close() error { return nil }

// Entry describes one shard file present in a store.
type Entry struct {
	Key  Key
	Size int64
}

// Store defines the interface for shard storage backends.
type Store interface {
	// WriteShard persists one shard payload, replacing any previous
	// payload at the same key.
	WriteShard(ctx context.Context, key Key, data []byte) error

	// ReadShard returns one shard payload. The returned Blob must be
	// closed after use. Returns ErrNotFound if the key is absent.
	ReadShard(ctx context.Context, key Key) (Blob, error)

	// RemoveSource deletes every shard of the given source across all
	// streams. Removing an unknown source is not an error.
	RemoveSource(ctx context.Context, source string) error

	// List enumerates the shard files currently present.
	List(ctx context.Context) ([]Entry, error)

	// Clear removes every persisted shard.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
