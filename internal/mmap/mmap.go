// Package mmap provides read-only memory-mapped file access so that
// large shard payloads can be handed to the decompressor as a direct
// view of the file, without an intervening heap copy.
package mmap

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Mapping is a read-only view of one file. It owns the mapped region
// and is responsible for unmapping it on Close.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
}

// Open maps the file at path read-only. A zero-length file yields a
// valid empty mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Mapping{data: data, size: int(size)}, nil
}

// Bytes returns the mapped view. The slice is valid only until Close;
// after Close it returns nil.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the length of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Close unmaps the view. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return unmapFile(data)
}
