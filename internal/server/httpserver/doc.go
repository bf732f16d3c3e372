// Package httpserver provides the operational HTTP endpoint of
// respkv-server.
//
//   - /metrics: Prometheus exposition
//   - /healthz: liveness, 200 while the RESP server is accepting
//   - /version: build information as JSON
//
// It is only started when server.metrics.enabled is set.
package httpserver
