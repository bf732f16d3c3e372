// Package confloader loads configuration with koanf and watches the config
// file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables (RESPKV_ prefix, "__" between levels)
//  3. The YAML configuration file
//  4. Values already present in the target struct (defaults)
package confloader
