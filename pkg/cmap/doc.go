// Package cmap provides a sharded, string-keyed concurrent map.
//
// Keys are spread over a power-of-two number of shards by their murmur3
// hash; each shard has its own RWMutex. It backs registries that are
// touched by every connection goroutine, such as the live connection set
// and the per-client rate limiters.
//
// Usage:
//
//	m := cmap.New[*Conn]()
//	m.Set(id, conn)
//	conn, ok := m.Get(id)
//	lim := limiters.GetOrCreate(ip, newLimiter)
package cmap
