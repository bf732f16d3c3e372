package config

import "time"

// Default CLI settings.
const (
	DefaultServer  = "127.0.0.1:6379"
	DefaultOutput  = "raw"
	DefaultTimeout = 5 * time.Second
)

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	Server      string        `yaml:"server"`
	Output      string        `yaml:"output"` // raw, json, yaml
	Timeout     time.Duration `yaml:"timeout"`
	HistoryFile string        `yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  DefaultServer,
		Output:  DefaultOutput,
		Timeout: DefaultTimeout,
	}
}
