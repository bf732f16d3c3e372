// Package config provides respkv-cli defaults read from ~/.respkv/cli.yaml.
//
// Values from the file apply only where the matching command-line flag and
// environment variable were not given.
//
//	server: 127.0.0.1:6379
//	output: raw
//	timeout: 5s
//	history_file: ~/.respkv/history
package config
