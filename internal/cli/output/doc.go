// Package output renders server replies for respkv-cli.
//
// Supported formats:
//
//   - raw: redis-cli style, quoted bulk strings and numbered arrays
//   - json: one JSON document per reply
//   - yaml: one YAML document per reply
package output
