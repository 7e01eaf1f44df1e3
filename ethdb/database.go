// Package ethdb defines the narrow key/value contract the core consumes
// from persistent storage (spec.md §6): get, put, delete on bytes→bytes.
// Two concrete engines satisfy it: an in-memory map (ethdb/memorydb) and an
// on-disk goleveldb-backed engine (ethdb/leveldb).
package ethdb

import "io"

// KeyValueReader wraps the read side of the KV contract.
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the write side of the KV contract.
type KeyValueWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch is a write-only KV store that buffers writes until Write is called,
// so callers (e.g. a trie commit of many nodes at once) can amortize the
// cost of a disk sync across a whole batch.
type Batch interface {
	KeyValueWriter
	ValueSize() int
	Write() error
	Reset()
}

// Batcher wraps the NewBatch method of a backing data store.
type Batcher interface {
	NewBatch() Batch
}

// KeyValueStore is the full contract consumed by the trie database and the
// account/code storage layer.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	Batcher
	io.Closer
}
