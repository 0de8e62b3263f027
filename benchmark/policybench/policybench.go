// Package policybench measures save and load performance of compression
// policies over one dataset. Each policy gets its own cache directory;
// runs after the first overwrite the previous entry, so timings reflect
// the steady supersede-and-reload cycle.
package policybench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lcdata/scancache"
	"github.com/lcdata/scancache/scantable"
)

// Result holds the samples collected for one policy.
type Result struct {
	// Policy is the policy identifier.
	Policy string

	// SaveSeconds and LoadSeconds hold one wall-time sample per run.
	SaveSeconds []float64
	LoadSeconds []float64

	// CacheBytes is the shard footprint of one saved entry on disk.
	CacheBytes int64

	// RawBytes is the in-memory column size of the dataset.
	RawBytes int64
}

// Ratio returns the cache footprint relative to the raw column size.
func (r *Result) Ratio() float64 {
	if r.RawBytes == 0 {
		return 0
	}
	return float64(r.CacheBytes) / float64(r.RawBytes)
}

// Runner benchmarks policies against a fixed dataset.
type Runner struct {
	dir     string
	workers int
	shards  int
}

// NewRunner creates a runner that keeps its caches under dir.
// workers and shardCount of zero select the cache defaults.
func NewRunner(dir string, workers, shardCount int) *Runner {
	return &Runner{dir: dir, workers: workers, shards: shardCount}
}

// Run saves and loads the dataset runs times under the given policy and
// collects per-run wall times. Every load is checked against the input
// row count, so a policy that corrupts data fails instead of producing
// a fast number.
func (r *Runner) Run(ctx context.Context, policy scancache.Policy, primary *scantable.Table, windows []scantable.Window, runs int) (*Result, error) {
	if runs < 1 {
		runs = 1
	}

	cacheDir := filepath.Join(r.dir, dirName(policy.ID()))
	source := filepath.Join(r.dir, "bench_input.raw")
	if err := os.WriteFile(source, []byte("synthetic benchmark input"), 0o644); err != nil {
		return nil, fmt.Errorf("writing benchmark source: %w", err)
	}

	cache, err := scancache.New(
		scancache.WithCacheDir(cacheDir),
		scancache.WithPolicy(policy),
		scancache.WithWorkers(r.workers),
		scancache.WithShardCount(r.shards),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	defer cache.Close()

	res := &Result{
		Policy:      policy.ID(),
		SaveSeconds: make([]float64, 0, runs),
		LoadSeconds: make([]float64, 0, runs),
		RawBytes:    datasetBytes(primary, windows),
	}

	for i := 0; i < runs; i++ {
		start := time.Now()
		if err := cache.Save(ctx, source, primary, windows); err != nil {
			return nil, fmt.Errorf("save run %d: %w", i+1, err)
		}
		res.SaveSeconds = append(res.SaveSeconds, time.Since(start).Seconds())

		start = time.Now()
		loaded, loadedWindows, err := cache.Load(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("load run %d: %w", i+1, err)
		}
		res.LoadSeconds = append(res.LoadSeconds, time.Since(start).Seconds())

		if loaded.Len() != primary.Len() || len(loadedWindows) != len(windows) {
			return nil, fmt.Errorf("load run %d: reconstructed %d rows/%d windows, want %d/%d",
				i+1, loaded.Len(), len(loadedWindows), primary.Len(), len(windows))
		}
	}

	infos, err := cache.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("sizing cache: %w", err)
	}
	for _, si := range infos {
		res.CacheBytes += si.TotalBytes
	}
	return res, nil
}

func datasetBytes(primary *scantable.Table, windows []scantable.Window) int64 {
	total := primary.SizeBytes()
	for _, w := range windows {
		total += w.Data.SizeBytes()
	}
	return total
}

// dirName makes a policy identifier safe as a directory name.
func dirName(id string) string {
	return strings.ReplaceAll(id, ":", "_")
}
