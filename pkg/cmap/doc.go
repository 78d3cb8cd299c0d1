// Package cmap provides a concurrent map implementation for ConsoleGate.
//
// This package implements a sharded concurrent map used for tracking
// live connections with the following features:
//
//   - Sharding: Configurable shard count for parallelism
//   - Fine-grained Locking: Per-shard RWMutex for minimal contention
//   - Iteration: Safe iteration while holding read locks
//
// Usage:
//
//	m := cmap.New[string, *Conn]()
//	m.Set("key", conn)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete) use Lock.
package cmap
