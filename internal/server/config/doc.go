// Package config defines the respkv-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: validation run after loading
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and RESPKV_ environment variables, layered over Default().
package config
