// Package manifest persists the per-source cache descriptor that commits a
// save and drives the staleness check.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest describes one cached source: format version, compression policy,
// how many shard files to expect per stream, and the source state the cache
// mirrors. Its presence is the commit marker for a completed save.
type Manifest struct {
	Version        int       `json:"version"`
	Policy         string    `json:"compression"`
	ShardCount     int       `json:"shard_count"`
	WindowCount    int       `json:"window_count"`
	CreatedAt      time.Time `json:"created_at"`
	SourceModified time.Time `json:"source_modified"`
	Workers        int       `json:"workers"`
}

// Path returns the descriptor path for source inside dir.
func Path(dir, source string) string {
	return filepath.Join(dir, source+".meta")
}

// Write writes the descriptor to path, creating parent directories as needed.
func Write(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling descriptor: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}

// Read reads a descriptor from path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	return &m, nil
}

// Remove deletes the descriptor at path. Missing files are not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing descriptor: %w", err)
	}
	return nil
}

// Stale reports whether the source has been modified after the manifest was
// written. When the source cannot be inspected its modified time is taken as
// the zero time, so an unreadable source never invalidates the cache.
func (m *Manifest) Stale(sourcePath string) bool {
	var current time.Time
	if fi, err := os.Stat(sourcePath); err == nil {
		current = fi.ModTime()
	}
	return current.After(m.SourceModified)
}

// SourceModified returns the source's current last-modified time. When the
// source cannot be inspected the current time is recorded, which keeps the
// descriptor valid until the source reappears with a newer timestamp.
func SourceModified(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return fi.ModTime()
}
