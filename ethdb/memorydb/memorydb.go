// Package memorydb implements the in-memory ethdb.KeyValueStore used by
// tests and by any caller that does not need state to outlive the process.
package memorydb

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/ethdb"
)

// ErrMemorydbClosed is returned on any operation against a closed Database.
var ErrMemorydbClosed = errors.New("memorydb: closed")

// ErrMemorydbNotFound is returned when a key is not present.
var ErrMemorydbNotFound = errors.New("memorydb: not found")

// Database is an ephemeral key/value store. Keys are stored as strings
// (not the key's own byte slice) so concurrent mutation of the caller's
// key slice cannot corrupt the map; writes are write-once in the sense
// the trie/code layers above never reuse a content-addressed key for a
// different value (spec.md §5).
type Database struct {
	lock sync.RWMutex
	db   map[string][]byte
}

// New returns a new empty in-memory key/value store.
func New() *Database {
	return &Database{db: make(map[string][]byte)}
}

func (d *Database) Has(key []byte) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return false, ErrMemorydbClosed
	}
	_, ok := d.db[string(key)]
	return ok, nil
}

func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return nil, ErrMemorydbClosed
	}
	if v, ok := d.db[string(key)]; ok {
		return common.CopyBytes(v), nil
	}
	return nil, ErrMemorydbNotFound
}

func (d *Database) Put(key, value []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	d.db[string(key)] = common.CopyBytes(value)
	return nil
}

func (d *Database) Delete(key []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	delete(d.db, string(key))
	return nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.db = nil
	return nil
}

func (d *Database) Len() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return len(d.db)
}

// NewBatch returns a write-buffering batch over d.
func (d *Database) NewBatch() ethdb.Batch {
	return &batch{db: d}
}

// Iterator walks a sorted snapshot of keys taken at creation time; later
// writes to the underlying Database are not reflected.
type Iterator struct {
	keys   []string
	values [][]byte
	idx    int
}

// NewIteratorWithPrefix returns an Iterator over all keys with the given
// prefix, in ascending lexicographic order. Used by trie/state range
// iteration (spec.md §5) and by snap-sync style account-range walks.
func (d *Database) NewIteratorWithPrefix(prefix []byte) *Iterator {
	d.lock.RLock()
	defer d.lock.RUnlock()

	keys := make([]string, 0, len(d.db))
	for k := range d.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = common.CopyBytes(d.db[k])
	}
	return &Iterator{keys: keys, values: values, idx: -1}
}

// Next advances the iterator, reporting whether a value remains.
func (it *Iterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

// Key returns the current key, valid only after a Next call returning true.
func (it *Iterator) Key() []byte { return []byte(it.keys[it.idx]) }

// Value returns the current value, valid only after a Next call returning true.
func (it *Iterator) Value() []byte { return it.values[it.idx] }

// Error always returns nil: an in-memory snapshot iterator cannot fail
// after creation.
func (it *Iterator) Error() error { return nil }

type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db   *Database
	kv   []keyvalue
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.kv = append(b.kv, keyvalue{common.CopyBytes(key), common.CopyBytes(value), false})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.kv = append(b.kv, keyvalue{common.CopyBytes(key), nil, true})
	b.size += len(key)
	return nil
}

func (b *batch) ValueSize() int { return b.size }

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	if b.db.db == nil {
		return ErrMemorydbClosed
	}
	for _, kv := range b.kv {
		if kv.delete {
			delete(b.db.db, string(kv.key))
			continue
		}
		b.db.db[string(kv.key)] = kv.value
	}
	return nil
}

func (b *batch) Reset() {
	b.kv = b.kv[:0]
	b.size = 0
}

var _ ethdb.KeyValueStore = (*Database)(nil)
