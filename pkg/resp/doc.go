// Package resp implements the subset of the Redis serialization protocol
// (RESP2) spoken by respkv.
//
// It provides:
//
//   - value.go: the Value tagged variant (simple string, error, bulk string,
//     null, array)
//   - reader.go: a streaming decoder that frames one Value at a time
//   - writer.go: an encoder that flushes after every value
//   - command.go: translation of a decoded array of bulk strings into a
//     Command
//
// Basic usage:
//
//	r := resp.NewReader(conn)
//	w := resp.NewWriter(conn)
//	for {
//		v, err := r.ReadValue()
//		if errors.Is(err, io.EOF) {
//			return // peer closed between values
//		}
//		if err != nil {
//			return // framing error, drop the connection
//		}
//		cmd, err := resp.ParseCommand(v)
//		...
//		_ = w.WriteValue(resp.SimpleString("OK"))
//	}
//
// Inline commands and RESP3 types are not supported.
package resp
