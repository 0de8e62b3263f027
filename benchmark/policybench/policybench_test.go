package policybench

import (
	"context"
	"testing"

	"github.com/lcdata/scancache"
	"github.com/lcdata/scancache/benchmark/synth"
)

func TestRun_CollectsSamples(t *testing.T) {
	primary, windows := synth.Dataset(synth.Config{Rows: 2000, Windows: 2, WindowRows: 200, Seed: 5})
	runner := NewRunner(t.TempDir(), 2, 2)

	res, err := runner.Run(context.Background(), scancache.Uniform(scancache.None), primary, windows, 3)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Policy != "none" {
		t.Errorf("Policy = %q, want none", res.Policy)
	}
	if len(res.SaveSeconds) != 3 || len(res.LoadSeconds) != 3 {
		t.Errorf("collected %d save / %d load samples, want 3 / 3", len(res.SaveSeconds), len(res.LoadSeconds))
	}
	if res.CacheBytes <= 0 {
		t.Errorf("CacheBytes = %d, want > 0", res.CacheBytes)
	}
	if want := int64((2000 + 2*200) * 24); res.RawBytes != want {
		t.Errorf("RawBytes = %d, want %d", res.RawBytes, want)
	}

	// Uncompressed storage adds only framing and headers.
	if r := res.Ratio(); r < 1 || r > 1.1 {
		t.Errorf("Ratio() = %f, want slightly above 1 for the none policy", r)
	}
}

func TestRun_CompressedSmallerThanRaw(t *testing.T) {
	primary, windows := synth.Dataset(synth.Config{Rows: 20_000, Windows: 2, WindowRows: 5000, Seed: 5})
	runner := NewRunner(t.TempDir(), 2, 2)
	ctx := context.Background()

	raw, err := runner.Run(ctx, scancache.Uniform(scancache.None), primary, windows, 1)
	if err != nil {
		t.Fatalf("Run(none) error = %v", err)
	}
	zstd, err := runner.Run(ctx, scancache.Uniform(scancache.Zstd), primary, windows, 1)
	if err != nil {
		t.Fatalf("Run(zstd) error = %v", err)
	}

	if zstd.CacheBytes >= raw.CacheBytes {
		t.Errorf("zstd cache %d bytes, none cache %d bytes; want zstd smaller", zstd.CacheBytes, raw.CacheBytes)
	}
}

func TestRun_MinimumOneRun(t *testing.T) {
	primary, windows := synth.Dataset(synth.Config{Rows: 100, Seed: 1})
	runner := NewRunner(t.TempDir(), 1, 1)

	res, err := runner.Run(context.Background(), scancache.Hybrid(), primary, windows, 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.SaveSeconds) != 1 {
		t.Errorf("collected %d save samples, want 1", len(res.SaveSeconds))
	}
}
