// Package command provides CLI command definitions for respkv-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
//
// Settings resolve in this order, later wins: built-in defaults,
// ~/.respkv/cli.yaml (or --config), environment, flags.
package command
