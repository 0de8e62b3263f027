// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Cache lifecycle metrics.
	MetricSaves       = "scancache_saves_total"
	MetricLoads       = "scancache_loads_total"
	MetricValidHits   = "scancache_valid_hits_total"
	MetricValidMisses = "scancache_valid_misses_total"

	// Shard I/O metrics.
	MetricShardWrites   = "scancache_shard_writes_total"
	MetricMappedReads   = "scancache_shard_reads_mapped_total"
	MetricBufferedReads = "scancache_shard_reads_buffered_total"
	MetricBytesWritten  = "scancache_bytes_written_total"
	MetricBytesRead     = "scancache_bytes_read_total"

	// In-memory shard cache metrics.
	MetricCacheHits   = "scancache_shard_cache_hits_total"
	MetricCacheMisses = "scancache_shard_cache_misses_total"
	MetricCacheSize   = "scancache_shard_cache_size"

	// Duration histograms, in seconds.
	MetricSaveSeconds = "scancache_save_duration_seconds"
	MetricLoadSeconds = "scancache_load_duration_seconds"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
