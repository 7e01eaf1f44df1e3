package trie

import (
	"errors"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/ethdb"
	"github.com/mana-ethereum/mana-sub005/log"
)

// ErrMissingNode is the "dangling hash reference" corruption signal of
// spec.md §4.2/§7.6: a hash is present in a parent's structure but the node
// it names cannot be found in the backing KV store.
var ErrMissingNode = errors.New("trie: missing node in database (corruption)")

// defaultCacheSize is the fastcache size fronting the KV store; sized for
// a development node, not tuned for production memory budgets.
const defaultCacheSize = 32 * 1024 * 1024

// Database couples a content-addressed node store (any ethdb.KeyValueStore)
// with an in-memory fastcache, following go-ethereum's trie.Database
// split between the durable KV layer and a hot node cache.
type Database struct {
	diskdb ethdb.KeyValueStore
	clean  *fastcache.Cache
	log    log.Logger
}

// NewDatabase wraps diskdb with a fastcache-backed node cache.
func NewDatabase(diskdb ethdb.KeyValueStore) *Database {
	return &Database{
		diskdb: diskdb,
		clean:  fastcache.New(defaultCacheSize),
		log:    log.Root().With("module", "trie"),
	}
}

// Node fetches the RLP-encoded node for the given hash, consulting the
// clean-node cache before falling back to the KV store.
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	if enc := db.clean.Get(nil, hash[:]); enc != nil {
		return enc, nil
	}
	enc, err := db.diskdb.Get(hash[:])
	if err != nil || enc == nil {
		db.log.Error("dangling trie node reference", "hash", hash)
		return nil, fmt.Errorf("%w: %s", ErrMissingNode, hash.Hex())
	}
	db.clean.Set(hash[:], enc)
	return enc, nil
}

// InsertBlob writes the RLP-encoded node enc under Keccak(enc), seeding the
// clean cache so an immediately-following read is cheap. Nodes are never
// overwritten once written (spec.md §5's write-once KV discipline).
func (db *Database) InsertBlob(enc []byte) common.Hash {
	hash := crypto.Keccak256Hash(enc)
	db.clean.Set(hash[:], enc)
	if err := db.diskdb.Put(hash[:], enc); err != nil {
		db.log.Error("failed to persist trie node", "hash", hash, "err", err)
	}
	return hash
}

// DiskDB returns the backing KV store, e.g. so the account repository can
// share it for contract code storage (spec.md §4.3's `set_code`).
func (db *Database) DiskDB() ethdb.KeyValueStore { return db.diskdb }
