package scancache

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/lcdata/scancache/internal/codec"
	"github.com/lcdata/scancache/internal/stats"
	"github.com/lcdata/scancache/internal/store"
)

// DefaultCacheDir is the cache directory used when none is configured.
const DefaultCacheDir = ".scancache"

// Option configures a Cache.
type Option interface {
	apply(*options)
}

// options holds the cache configuration.
type options struct {
	cacheDir      string
	store         store.Store
	policy        codec.Policy
	workers       int
	shardCount    int
	mmapThreshold int64
	shardCache    int
	stats         stats.Collector
	logger        *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		cacheDir: DefaultCacheDir,
		policy:   codec.Hybrid(),
		workers:  runtime.NumCPU(),
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithCacheDir sets the cache directory.
// Default is ".scancache" under the working directory.
func WithCacheDir(dir string) Option {
	return optionFunc(func(o *options) {
		if dir != "" {
			o.cacheDir = dir
		}
	})
}

// WithStore sets the shard storage backend, replacing the default disk
// store. The descriptor files stay in the cache directory regardless.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithPolicy sets the compression policy recorded at save time.
// If not set, the hybrid policy is used: fragment windows are
// LZ4-compressed, the primary stream is stored raw.
func WithPolicy(p Policy) Option {
	return optionFunc(func(o *options) {
		if p != nil {
			o.policy = p
		}
	})
}

// WithWorkers sets the number of parallel shard workers per stream.
// Default is runtime.NumCPU().
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		if n > 0 {
			o.workers = n
		}
	})
}

// WithShardCount sets how many shards the primary stream is split into
// on save. Default is the worker count.
func WithShardCount(n int) Option {
	return optionFunc(func(o *options) {
		if n > 0 {
			o.shardCount = n
		}
	})
}

// WithMmapThreshold sets the shard file size in bytes above which reads
// are memory-mapped instead of buffered.
func WithMmapThreshold(n int64) Option {
	return optionFunc(func(o *options) {
		if n > 0 {
			o.mmapThreshold = n
		}
	})
}

// WithShardCache keeps up to capacity recently read shard payloads in
// memory. Disabled by default. This only buffers reads; cache entries on
// disk are never evicted.
func WithShardCache(capacity int) Option {
	return optionFunc(func(o *options) {
		if capacity > 0 {
			o.shardCache = capacity
		}
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.stats = c
		}
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}
