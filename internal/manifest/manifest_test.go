package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	path := Path(t.TempDir(), "run_a")

	want := &Manifest{
		Version:        2,
		Policy:         "hybrid",
		ShardCount:     4,
		WindowCount:    7,
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SourceModified: time.Date(2025, 5, 30, 8, 30, 0, 0, time.UTC),
		Workers:        8,
	}
	if err := Write(path, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Version != want.Version || got.Policy != want.Policy {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
	if got.ShardCount != want.ShardCount || got.WindowCount != want.WindowCount {
		t.Errorf("counts = (%d, %d), want (%d, %d)",
			got.ShardCount, got.WindowCount, want.ShardCount, want.WindowCount)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.SourceModified.Equal(want.SourceModified) {
		t.Errorf("timestamps = (%v, %v), want (%v, %v)",
			got.CreatedAt, got.SourceModified, want.CreatedAt, want.SourceModified)
	}
	if got.Workers != want.Workers {
		t.Errorf("Workers = %d, want %d", got.Workers, want.Workers)
	}
}

func TestWrite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	path := Path(dir, "run")

	if err := Write(path, &Manifest{Version: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("descriptor missing after write: %v", err)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(Path(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() error = %v, want ErrNotExist", err)
	}
}

func TestRead_Corrupt(t *testing.T) {
	path := Path(t.TempDir(), "bad")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read() should fail on corrupt descriptor")
	}
}

func TestRemove(t *testing.T) {
	path := Path(t.TempDir(), "run")
	if err := Write(path, &Manifest{Version: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("descriptor still present after Remove")
	}

	// Removing an absent descriptor is not an error.
	if err := Remove(path); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestStale(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.d")
	if err := os.WriteFile(source, []byte("raw scans"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(source, base, base); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		sourceModified time.Time
		want           bool
	}{
		{"descriptor newer than source", base.Add(time.Hour), false},
		{"descriptor equal to source", base, false},
		{"descriptor older than source", base.Add(-time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{SourceModified: tt.sourceModified}
			if got := m.Stale(source); got != tt.want {
				t.Errorf("Stale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStale_MissingSource(t *testing.T) {
	m := &Manifest{SourceModified: time.Now()}
	if m.Stale(filepath.Join(t.TempDir(), "gone.d")) {
		t.Error("a missing source should not mark the cache stale")
	}
}

func TestSourceModified(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.d")
	if err := os.WriteFile(source, []byte("raw scans"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2025, 3, 15, 9, 0, 0, 0, time.Local)
	if err := os.Chtimes(source, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if got := SourceModified(source); !got.Equal(mtime) {
		t.Errorf("SourceModified() = %v, want %v", got, mtime)
	}

	// A missing source records the current time instead.
	before := time.Now()
	got := SourceModified(filepath.Join(dir, "gone.d"))
	if got.Before(before) {
		t.Errorf("SourceModified() for missing source = %v, want >= %v", got, before)
	}
}
