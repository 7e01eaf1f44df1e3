package state

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/rlp"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// stateObject is the mutable, in-memory view of one account (spec.md
// §4.3): its consensus data (types.StateAccount), a lazily-opened storage
// trie, and the per-transaction dirty-storage overlay that journal.go
// reverts on a failed call frame.
type stateObject struct {
	address common.Address
	addrHash common.Hash
	data    types.StateAccount

	db *StateDB

	trie *trie.Trie // storage trie, opened on first access
	code []byte     // contract bytecode, loaded on first access

	originStorage map[common.Hash]common.Hash
	dirtyStorage  map[common.Hash]common.Hash

	dirtyCode bool
	suicided  bool
	deleted   bool
}

func newObject(db *StateDB, address common.Address, data types.StateAccount) *stateObject {
	if data.Balance == nil {
		data.Balance = new(big.Int)
	}
	if data.CodeHash == nil {
		data.CodeHash = types.EmptyCodeHash.Bytes()
	}
	if data.Root == (common.Hash{}) {
		data.Root = types.EmptyRootHash
	}
	return &stateObject{
		db:            db,
		address:       address,
		addrHash:      crypto.Keccak256Hash(address.Bytes()),
		data:          data,
		originStorage: make(map[common.Hash]common.Hash),
		dirtyStorage:  make(map[common.Hash]common.Hash),
	}
}

func (s *stateObject) empty() bool {
	return s.data.Nonce == 0 && s.data.Balance.Sign() == 0 && bytesEqual(s.data.CodeHash, types.EmptyCodeHash.Bytes())
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *stateObject) markSuicided() { s.suicided = true }

func (s *stateObject) setBalance(amount *big.Int) { s.data.Balance = amount }

func (s *stateObject) setNonce(nonce uint64) { s.data.Nonce = nonce }

func (s *stateObject) setCode(codeHash common.Hash, code []byte) {
	s.code = code
	s.data.CodeHash = codeHash.Bytes()
	s.dirtyCode = true
}

// Code returns the bytecode for this account, fetching it from the
// backing KV store by CodeHash on first access (spec.md §4.3 "code
// storage", keyed by its own hash rather than inline in the account leaf).
func (s *stateObject) Code() []byte {
	if s.code != nil {
		return s.code
	}
	if bytesEqual(s.data.CodeHash, types.EmptyCodeHash.Bytes()) {
		return nil
	}
	code, err := s.db.db.DiskDB().Get(s.data.CodeHash)
	if err != nil {
		s.db.setError(err)
		return nil
	}
	s.code = code
	return code
}

// openStorageTrie opens (or lazily creates) the per-account storage trie
// rooted at s.data.Root.
func (s *stateObject) openStorageTrie() (*trie.Trie, error) {
	if s.trie != nil {
		return s.trie, nil
	}
	t, err := trie.New(s.db.db, s.data.Root)
	if err != nil {
		return nil, err
	}
	s.trie = t
	return t, nil
}

// GetState returns the value stored at key, checking the dirty overlay,
// then the origin-read cache, then the storage trie (spec.md §4.3
// `storage_get`).
func (s *stateObject) GetState(key common.Hash) common.Hash {
	if value, dirty := s.dirtyStorage[key]; dirty {
		return value
	}
	return s.GetCommittedState(key)
}

func (s *stateObject) GetCommittedState(key common.Hash) common.Hash {
	if value, cached := s.originStorage[key]; cached {
		return value
	}
	t, err := s.openStorageTrie()
	if err != nil {
		s.db.setError(err)
		return common.Hash{}
	}
	enc, err := t.Get(crypto.Keccak256(key.Bytes()))
	if err != nil {
		s.db.setError(err)
		return common.Hash{}
	}
	var value common.Hash
	if len(enc) > 0 {
		var content []byte
		if err := rlp.DecodeBytes(enc, &content); err != nil {
			s.db.setError(err)
		} else {
			value.SetBytes(content)
		}
	}
	s.originStorage[key] = value
	return value
}

// SetState writes value to key in the dirty overlay (spec.md §4.3
// `storage_put`); it is only folded into the storage trie at Commit time.
func (s *stateObject) SetState(key, value common.Hash) {
	s.dirtyStorage[key] = value
}

// updateTrie folds every dirty storage slot into the account's storage
// trie, keyed by Keccak(slot) per spec.md §4.3 (storage keys are
// themselves hashed, mirroring the world-state-trie key convention).
func (s *stateObject) updateTrie() error {
	if len(s.dirtyStorage) == 0 {
		return nil
	}
	t, err := s.openStorageTrie()
	if err != nil {
		return err
	}
	for key, value := range s.dirtyStorage {
		s.originStorage[key] = value
		trieKey := crypto.Keccak256(key.Bytes())
		if (value == common.Hash{}) {
			if err := t.Update(trieKey, nil); err != nil {
				return err
			}
			continue
		}
		enc, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value.Bytes()))
		if err != nil {
			return err
		}
		if err := t.Update(trieKey, enc); err != nil {
			return err
		}
	}
	s.dirtyStorage = make(map[common.Hash]common.Hash)
	return nil
}

// updateRoot recomputes s.data.Root from the storage trie after
// updateTrie has folded in every dirty slot.
func (s *stateObject) updateRoot() {
	if s.trie == nil {
		return
	}
	s.data.Root = s.trie.Hash()
}

// commitStorageTrie persists the storage trie, returning its new root.
func (s *stateObject) commitStorageTrie() (common.Hash, error) {
	if s.trie == nil {
		return s.data.Root, nil
	}
	root, err := s.trie.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	s.data.Root = root
	return root, nil
}

func (s *stateObject) deepCopy(db *StateDB) *stateObject {
	cpy := newObject(db, s.address, s.data)
	cpy.data.Balance = new(big.Int).Set(s.data.Balance)
	cpy.code = s.code
	cpy.trie = s.trie
	for k, v := range s.originStorage {
		cpy.originStorage[k] = v
	}
	for k, v := range s.dirtyStorage {
		cpy.dirtyStorage[k] = v
	}
	cpy.suicided = s.suicided
	cpy.deleted = s.deleted
	cpy.dirtyCode = s.dirtyCode
	return cpy
}
