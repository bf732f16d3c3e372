// Package main provides the entry point for respkv-server.
//
// The server is a small in-memory key-value store that speaks the Redis
// serialization protocol. It supports PING, ECHO, SET (with PX) and GET,
// and optionally exposes Prometheus metrics over HTTP.
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /path/to/config.yaml
//	RESPKV_SERVER__REDIS__ADDR=0.0.0.0:6379 respkv-server
//
// When a config file is given it is watched, and a change to log.level is
// applied without a restart. Other settings need a restart.
package main
