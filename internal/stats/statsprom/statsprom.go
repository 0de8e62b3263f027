// Package statsprom provides a Prometheus-based stats collector.
package statsprom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcdata/scancache/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are registered lazily on first use and reused afterwards.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	counter := metricFor(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
	})
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	gauge := metricFor(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
	})
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	histogram := metricFor(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    name,
			Buckets: prometheus.DefBuckets,
		})
	})
	histogram.Observe(value)
}

// metricFor returns the cached metric for name, building and registering it
// on first use. If another party already registered the name, the existing
// metric is adopted instead.
func metricFor[M prometheus.Collector](c *Collector, cache map[string]M, name string, build func() M) M {
	c.mu.RLock()
	m, ok := cache[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if m, ok = cache[name]; ok {
		return m
	}

	m = build()
	if err := c.registry.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(M); ok {
				cache[name] = existing
				return existing
			}
		}
		// Registration failed but the metric itself still works;
		// it just will not be exported.
	}
	cache[name] = m
	return m
}
