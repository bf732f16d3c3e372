// Package connection provides the RESP client used by respkv-cli.
//
// A Client holds one TCP connection and issues commands one at a time:
//
//	c, err := connection.Dial(ctx, "127.0.0.1:6379", 5*time.Second)
//	reply, err := c.Do(ctx, "SET", "k", "v")
//
// Error replies from the server are returned as values, not Go errors.
// A Go error means the connection itself failed and should be discarded.
package connection
