// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: the per-process registry, command/connection
//     instruments and the /metrics handler
//   - collector.go: a collector reading live Store statistics at scrape time
//
// All recording methods are safe on a nil *Registry, so components can be
// built without metrics in tests.
package metric
