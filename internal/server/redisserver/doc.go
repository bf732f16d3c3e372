// Package redisserver serves the respkv key-value store over RESP.
//
// Each accepted connection runs in its own goroutine and processes
// requests strictly in order: read one value, interpret it as a command,
// dispatch it against the shared store and write the reply. PING, ECHO,
// SET (with optional PX expiry) and GET are supported; any other command
// gets an error reply and the connection stays usable.
//
// Framing errors, malformed commands and missing arguments close the
// connection without a reply.
package redisserver
