// Package repl provides the interactive mode of respkv-cli.
//
// Each input line is split with Tokenize and handed to an Executor.
// Double quotes group words and accept backslash escapes; single quotes
// group words literally. The builtins exit, quit and history are handled
// locally.
package repl
