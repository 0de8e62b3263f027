//go:build !unix

package mmap

import (
	"io"
	"os"
)

// Platforms without mmap support fall back to reading the whole file
// into a heap buffer. Callers observe the same Mapping semantics,
// minus the zero-copy benefit.
func mapFile(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}

func unmapFile([]byte) error {
	return nil
}
