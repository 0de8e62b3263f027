// Package scancachefx provides an fx module for a disk-backed scan cache.
package scancachefx

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lcdata/scancache"
	"github.com/lcdata/scancache/internal/stats"
	"github.com/lcdata/scancache/internal/stats/statslogger"
	"github.com/lcdata/scancache/internal/stats/statsprom"
)

// Config holds configuration for the disk-backed scan cache.
type Config struct {
	// CacheDir is the directory holding shard and descriptor files.
	// Default is scancache.DefaultCacheDir.
	CacheDir string

	// Policy is a compression policy identifier ("none", "lz4", "zstd",
	// "hybrid" or "probe:<min>:<algo>"). Empty selects the default
	// hybrid policy.
	Policy string

	// Workers is the number of parallel shard workers per stream.
	// Zero selects the default.
	Workers int

	// ShardCount is the number of shards the primary stream is split
	// into on save. Zero selects the default.
	ShardCount int

	// MmapThreshold is the shard file size in bytes above which reads
	// are memory-mapped. Zero selects the default.
	MmapThreshold int64

	// ShardCache is the number of recently read shard payloads to keep
	// in memory. Zero disables the read-through cache.
	ShardCache int

	// Metrics receives Prometheus metrics for cache operations. Nil
	// reports metrics through the zap logger instead.
	Metrics prometheus.Registerer
}

// Module provides a disk-backed *scancache.Cache.
// Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("scancache",
	fx.Provide(
		newStatsCollector,
		newCache,
	),
)

func newStatsCollector(cfg Config, log *zap.Logger) stats.Collector {
	if cfg.Metrics != nil {
		return statsprom.New(cfg.Metrics)
	}
	return statslogger.New(log.Named("scancache.stats"))
}

// Params holds dependencies for creating the cache.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided cache.
type Result struct {
	fx.Out

	Cache *scancache.Cache
}

func newCache(p Params) (Result, error) {
	opts := []scancache.Option{
		scancache.WithCacheDir(p.Config.CacheDir),
		scancache.WithWorkers(p.Config.Workers),
		scancache.WithShardCount(p.Config.ShardCount),
		scancache.WithMmapThreshold(p.Config.MmapThreshold),
		scancache.WithShardCache(p.Config.ShardCache),
		scancache.WithStats(p.Collector),
		scancache.WithLogger(p.Logger.Named("scancache")),
	}

	if p.Config.Policy != "" {
		policy, err := scancache.ParsePolicy(p.Config.Policy)
		if err != nil {
			return Result{}, fmt.Errorf("parsing compression policy: %w", err)
		}
		opts = append(opts, scancache.WithPolicy(policy))
	}

	cache, err := scancache.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})

	return Result{Cache: cache}, nil
}
