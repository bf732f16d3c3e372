// Package logger provides structured logging for respkv.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: construction, output format and the dynamic level
//   - context.go: context propagation of the logger and connection IDs
//   - redact.go: masking of credential-like attributes and truncation of
//     long values echoed from client data
//
// The level can be changed at runtime with SetLevel; the config watcher
// uses this to apply log.level edits without a restart.
package logger
