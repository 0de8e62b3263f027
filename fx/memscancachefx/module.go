// Package memscancachefx provides an fx module for an in-memory scan cache.
// Useful for testing. Shard payloads live in memory; descriptor files go
// to a temporary directory that is removed when the app stops.
package memscancachefx

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lcdata/scancache"
	"github.com/lcdata/scancache/internal/stats"
	"github.com/lcdata/scancache/internal/stats/statslogger"
	"github.com/lcdata/scancache/internal/store/memstore"
)

// Module provides a *scancache.Cache backed by an in-memory shard store.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memscancache",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newCache,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return statslogger.New(log.Named("scancache.stats"))
}

// newMemStore provides the backing store. Tests can depend on
// *memstore.Store directly to inspect or seed shard payloads.
func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the cache.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided cache.
type Result struct {
	fx.Out

	Cache *scancache.Cache
}

func newCache(p Params) (Result, error) {
	metaDir, err := os.MkdirTemp("", "scancache-meta-*")
	if err != nil {
		return Result{}, err
	}

	cache, err := scancache.New(
		scancache.WithCacheDir(metaDir),
		scancache.WithStore(p.Store),
		scancache.WithStats(p.Collector),
		scancache.WithLogger(p.Logger.Named("scancache")),
	)
	if err != nil {
		os.RemoveAll(metaDir)
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return multierr.Append(cache.Close(), os.RemoveAll(metaDir))
		},
	})

	return Result{Cache: cache}, nil
}
