// Package scancache provides a persistent, disk-backed cache for indexed
// mass-spectrometry scan data.
//
// A cached source is a set of shard files plus one descriptor: the primary
// scan table split into contiguous row ranges, and one shard per fragment
// isolation window. Saves compress and write shards in parallel; loads
// reassemble them in shard order. The descriptor is written last and its
// presence commits the entry, so a crashed save is observed as an invalid
// cache rather than a partial one.
//
// Example usage:
//
//	cache, err := scancache.New(
//	    scancache.WithCacheDir(".scancache"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	if cache.IsValid(sourcePath) {
//	    primary, windows, err := cache.Load(ctx, sourcePath)
//	    ...
//	} else {
//	    primary, windows := computeFromRaw(sourcePath)
//	    err = cache.Save(ctx, sourcePath, primary, windows)
//	}
package scancache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lcdata/scancache/internal/codec"
	"github.com/lcdata/scancache/internal/manifest"
	"github.com/lcdata/scancache/internal/parallel"
	"github.com/lcdata/scancache/internal/partition"
	"github.com/lcdata/scancache/internal/shardfmt"
	"github.com/lcdata/scancache/internal/stats"
	"github.com/lcdata/scancache/internal/store"
	"github.com/lcdata/scancache/internal/store/cachedstore"
	"github.com/lcdata/scancache/internal/store/diskstore"
	"github.com/lcdata/scancache/scantable"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the cache has been closed.
	ErrClosed = errors.New("scancache: cache closed")

	// ErrNoCache indicates no committed cache entry exists for the source.
	ErrNoCache = errors.New("scancache: no cache entry")

	// ErrCorrupt indicates a cache entry whose bytes cannot be decoded.
	ErrCorrupt = errors.New("scancache: corrupt cache entry")

	// ErrVersion indicates a cache entry written by an incompatible
	// format version.
	ErrVersion = errors.New("scancache: unsupported cache version")
)

// Cache persists computed scan datasets as compressed shard files and
// reconstructs them. A Cache is safe for concurrent use by multiple
// goroutines, with one documented exception: two concurrent Saves for the
// same source are undefined and must be serialized by the caller.
type Cache struct {
	dir     string
	store   store.Store
	policy  codec.Policy
	workers int
	shards  int
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a new Cache with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Cache, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.shardCount <= 0 {
		cfg.shardCount = cfg.workers
	}

	st := cfg.store
	if st == nil {
		st = diskstore.New(cfg.cacheDir,
			diskstore.WithMmapThreshold(cfg.mmapThreshold),
			diskstore.WithCollector(cfg.stats),
		)
	}
	if cfg.shardCache > 0 {
		backend, err := cachedstore.NewLRU(cfg.shardCache, cfg.stats)
		if err != nil {
			return nil, fmt.Errorf("creating shard cache: %w", err)
		}
		st = cachedstore.New(st, backend)
	}

	c := &Cache{
		dir:     cfg.cacheDir,
		store:   st,
		policy:  cfg.policy,
		workers: cfg.workers,
		shards:  cfg.shardCount,
		stats:   cfg.stats,
		logger:  cfg.logger,
	}

	c.logger.Debug("cache initialized",
		zap.String("dir", c.dir),
		zap.String("policy", c.policy.ID()),
		zap.Int("workers", c.workers),
		zap.Int("shardCount", c.shards),
	)

	return c, nil
}

// IsValid reports whether a usable cache entry exists for source. It never
// returns an error: a missing or unreadable descriptor, a format version
// mismatch, and a source modified after the save all report false.
func (c *Cache) IsValid(source string) bool {
	if c.closed.Load() {
		return false
	}

	name := sourceName(source)
	m, err := manifest.Read(manifest.Path(c.dir, name))
	if err != nil || m.Version != int(shardfmt.Version) || m.Stale(source) {
		c.stats.IncCounter(stats.MetricValidMisses, 1)
		c.logger.Debug("cache invalid", zap.String("source", name))
		return false
	}

	c.stats.IncCounter(stats.MetricValidHits, 1)
	return true
}

// Save persists the primary table and the fragment window table for
// source. The primary table is split into row-range shards; each window
// becomes exactly one shard. Both streams are written in parallel, then
// the descriptor is written last so a crash mid-save leaves the entry
// invalid rather than partially committed. A new Save fully supersedes
// any prior entry for the same source.
func (c *Cache) Save(ctx context.Context, source string, primary *scantable.Table, windows []scantable.Window) error {
	if c.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	name := sourceName(source)
	metaPath := manifest.Path(c.dir, name)
	sourceModified := manifest.SourceModified(source)

	// Invalidate the entry before touching shard files so a failed save
	// is never observed as committed.
	if err := manifest.Remove(metaPath); err != nil {
		return err
	}
	if err := c.store.RemoveSource(ctx, name); err != nil {
		return fmt.Errorf("removing prior shards: %w", err)
	}

	shards := partition.Split(primary, c.shards)

	var written atomic.Int64
	if err := parallel.Join(
		func() error { return c.saveShards(ctx, name, shards, &written) },
		func() error { return c.saveWindows(ctx, name, windows, &written) },
	); err != nil {
		return err
	}

	m := &manifest.Manifest{
		Version:        int(shardfmt.Version),
		Policy:         c.policy.ID(),
		ShardCount:     len(shards),
		WindowCount:    len(windows),
		CreatedAt:      time.Now(),
		SourceModified: sourceModified,
		Workers:        c.workers,
	}
	if err := manifest.Write(metaPath, m); err != nil {
		return err
	}

	elapsed := time.Since(start)
	c.stats.IncCounter(stats.MetricSaves, 1)
	c.stats.ObserveHistogram(stats.MetricSaveSeconds, elapsed.Seconds())
	c.logger.Info("cache saved",
		zap.String("source", name),
		zap.Int("rows", primary.Len()),
		zap.Int("shards", len(shards)),
		zap.Int("windows", len(windows)),
		zap.String("policy", c.policy.ID()),
		zap.Int64("bytes", written.Load()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("throughput_mbps", throughputMBps(written.Load(), elapsed)),
	)
	return nil
}

// SaveAsync runs Save in a new goroutine and delivers its result on the
// returned channel. The channel is buffered, so the result may be ignored
// for fire-and-forget use.
func (c *Cache) SaveAsync(ctx context.Context, source string, primary *scantable.Table, windows []scantable.Window) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- c.Save(ctx, source, primary, windows)
	}()
	return done
}

// Load reads the cache entry for source and reconstructs the primary
// table and the fragment window table. The caller is expected to have
// observed IsValid first; loading an absent entry returns ErrNoCache.
func (c *Cache) Load(ctx context.Context, source string) (*scantable.Table, []scantable.Window, error) {
	if c.closed.Load() {
		return nil, nil, ErrClosed
	}

	start := time.Now()
	name := sourceName(source)

	m, err := manifest.Read(manifest.Path(c.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoCache, name)
		}
		return nil, nil, fmt.Errorf("%w: %s descriptor: %v", ErrCorrupt, name, err)
	}
	if m.Version != int(shardfmt.Version) {
		return nil, nil, fmt.Errorf("%w: descriptor version %d", ErrVersion, m.Version)
	}
	if m.ShardCount < 0 || m.WindowCount < 0 {
		return nil, nil, fmt.Errorf("%w: descriptor counts %d/%d", ErrCorrupt, m.ShardCount, m.WindowCount)
	}

	// Decode with the policy the entry was saved under, not the current
	// configuration. An unknown policy identifier still loads: every
	// shard frame names its own algorithm.
	policy, perr := codec.ParsePolicy(m.Policy)
	if perr != nil {
		policy = nil
	}

	primaryShards := make([]scantable.Shard, m.ShardCount)
	windowShards := make([]scantable.Shard, m.WindowCount)

	var read atomic.Int64
	if err := parallel.Join(
		func() error {
			return parallel.ForEach(ctx, m.ShardCount, c.workers, func(ctx context.Context, i int) error {
				s, err := c.readShard(ctx, store.Key{Source: name, Stream: scantable.StreamPrimary, Index: i}, policy, &read)
				if err != nil {
					return err
				}
				primaryShards[i] = *s
				return nil
			})
		},
		func() error {
			return parallel.ForEach(ctx, m.WindowCount, c.workers, func(ctx context.Context, i int) error {
				s, err := c.readShard(ctx, store.Key{Source: name, Stream: scantable.StreamWindows, Index: i}, policy, &read)
				if err != nil {
					return err
				}
				windowShards[i] = *s
				return nil
			})
		},
	); err != nil {
		return nil, nil, err
	}

	primary := partition.Merge(primaryShards)
	windows := make([]scantable.Window, m.WindowCount)
	for i := range windowShards {
		windows[i] = partition.WindowFromShard(windowShards[i])
	}

	elapsed := time.Since(start)
	c.stats.IncCounter(stats.MetricLoads, 1)
	c.stats.ObserveHistogram(stats.MetricLoadSeconds, elapsed.Seconds())
	c.logger.Info("cache loaded",
		zap.String("source", name),
		zap.Int("rows", primary.Len()),
		zap.Int("shards", m.ShardCount),
		zap.Int("windows", m.WindowCount),
		zap.Int64("bytes", read.Load()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("throughput_mbps", throughputMBps(read.Load(), elapsed)),
	)
	return primary, windows, nil
}

// Clear deletes the cache directory and everything in it, for every
// source. Clearing an already-absent cache succeeds.
func (c *Cache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if err := multierr.Append(c.store.Clear(ctx), os.RemoveAll(c.dir)); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	c.logger.Info("cache cleared", zap.String("dir", c.dir))
	return nil
}

// SourceInfo summarizes the on-disk footprint of one cached source.
type SourceInfo struct {
	Source     string
	Shards     int
	TotalBytes int64
	HumanSize  string
}

// Info aggregates shard file sizes by source name, sorted by source.
func (c *Cache) Info(ctx context.Context) ([]SourceInfo, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	entries, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing shards: %w", err)
	}

	totals := make(map[string]*SourceInfo)
	for _, e := range entries {
		si := totals[e.Key.Source]
		if si == nil {
			si = &SourceInfo{Source: e.Key.Source}
			totals[e.Key.Source] = si
		}
		si.Shards++
		si.TotalBytes += e.Size
	}

	out := make([]SourceInfo, 0, len(totals))
	for _, si := range totals {
		si.HumanSize = humanize.IBytes(uint64(si.TotalBytes))
		out = append(out, *si)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

// Close releases all resources associated with the cache.
// After Close, the cache should not be used.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Store returns the storage backend used by this cache.
func (c *Cache) Store() store.Store {
	return c.store
}

// saveShards writes the primary stream's shards in parallel.
func (c *Cache) saveShards(ctx context.Context, source string, shards []scantable.Shard, written *atomic.Int64) error {
	return parallel.ForEach(ctx, len(shards), c.workers, func(ctx context.Context, i int) error {
		key := store.Key{Source: source, Stream: scantable.StreamPrimary, Index: i}
		if err := c.writeShard(ctx, key, &shards[i], written); err != nil {
			return fmt.Errorf("%s shard %d: %w", key.Stream, i, err)
		}
		return nil
	})
}

// saveWindows writes one shard per fragment window in parallel.
func (c *Cache) saveWindows(ctx context.Context, source string, windows []scantable.Window, written *atomic.Int64) error {
	return parallel.ForEach(ctx, len(windows), c.workers, func(ctx context.Context, i int) error {
		key := store.Key{Source: source, Stream: scantable.StreamWindows, Index: i}
		s := partition.WindowShard(windows[i])
		if err := c.writeShard(ctx, key, &s, written); err != nil {
			return fmt.Errorf("%s shard %d: %w", key.Stream, i, err)
		}
		return nil
	})
}

// writeShard encodes, compresses and stores a single shard.
func (c *Cache) writeShard(ctx context.Context, key store.Key, s *scantable.Shard, written *atomic.Int64) error {
	raw, err := shardfmt.Encode(s)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	algo := c.policy.Choose(key.Stream, len(raw))
	framed, err := codec.Compress(algo, raw)
	if err != nil {
		return fmt.Errorf("compressing: %w", err)
	}
	if err := c.store.WriteShard(ctx, key, framed); err != nil {
		return err
	}
	written.Add(int64(len(framed)))
	return nil
}

// readShard reads, decompresses and decodes a single shard. When the
// save-time policy pins an algorithm for the stream the frame must match
// it; otherwise the frame's own tag decides.
func (c *Cache) readShard(ctx context.Context, key store.Key, pol codec.Policy, read *atomic.Int64) (*scantable.Shard, error) {
	blob, err := c.store.ReadShard(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s shard %d", ErrNoCache, key.Stream, key.Index)
		}
		return nil, fmt.Errorf("%s shard %d: %w", key.Stream, key.Index, err)
	}
	defer blob.Close()
	read.Add(int64(len(blob.Bytes())))

	var raw []byte
	if pol != nil {
		if algo, ok := pol.LoadAlgorithm(key.Stream); ok {
			raw, err = codec.Decompress(algo, blob.Bytes())
		} else {
			raw, err = codec.DecompressAny(blob.Bytes())
		}
	} else {
		raw, err = codec.DecompressAny(blob.Bytes())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s shard %d: %v", ErrCorrupt, key.Stream, key.Index, err)
	}

	s, err := shardfmt.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s shard %d: %v", ErrCorrupt, key.Stream, key.Index, err)
	}
	return s, nil
}

// sourceName reduces a source path to the identity used in cache file
// names: the path's final element.
func sourceName(path string) string {
	return filepath.Base(path)
}

func throughputMBps(bytes int64, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(bytes) / 1e6 / secs
}
