// Package memory provides the in-memory key-value store for respkv.
//
// Features:
//
//   - Coarse Locking: one mutex guards the whole map, so every Set, Get and
//     Remove is atomic with respect to the others
//   - Deferred Expiry: SetWithExpiry spawns a goroutine that sleeps outside
//     the lock and removes the key when the TTL elapses
//   - Store-scoped Lifetime: expiry goroutines are owned by the Store, not by
//     the connection that scheduled them, and stop only on Close
//
// Nothing is persisted; all data is lost on restart.
package memory
