package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is the read-only view of the store needed at scrape time.
type StoreStats interface {
	Len() int
	PendingExpiries() int64
}

// StoreCollector collects key-space gauges from a StoreStats.
type StoreCollector struct {
	stats   StoreStats
	keys    *prometheus.Desc
	pending *prometheus.Desc
}

// NewStoreCollector creates a collector reading from s.
func NewStoreCollector(s StoreStats) *StoreCollector {
	return &StoreCollector{
		stats: s,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of keys currently stored.",
			nil, nil,
		),
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pending_expiries"),
			"Number of scheduled expiries that have not run yet.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.pending
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.stats.Len()))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(c.stats.PendingExpiries()))
}
