package state

import (
	"errors"
	"math/big"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/log"
	"github.com/mana-ethereum/mana-sub005/rlp"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// codeCacheSize bounds the in-process bytecode LRU shared across
// StateDB instances opened from the same trie.Database.
const codeCacheSize = 256

// StateDB is the account repository of spec.md §4.3: a view over the
// world state trie that tracks per-transaction dirty state via a
// journal, supports nested snapshot/revert, and computes the new state
// root on Commit.
type StateDB struct {
	db   *trie.Database
	trie *trie.Trie

	stateObjects      map[common.Address]*stateObject
	stateObjectsDirty map[common.Address]struct{}

	codeCache *lru.Cache

	journal        *journal
	validRevisions []revision
	nextRevisionID int

	refund uint64

	logs    map[common.Hash][]*types.Log
	logSize uint

	touched mapset.Set[common.Address]

	thash   common.Hash
	txIndex int

	err error
}

type revision struct {
	id           int
	journalIndex int
}

// New opens a StateDB rooted at root.
func New(root common.Hash, db *trie.Database) (*StateDB, error) {
	t, err := trie.New(db, root)
	if err != nil {
		return nil, err
	}
	codeCache, _ := lru.New(codeCacheSize)
	return &StateDB{
		db:                db,
		trie:              t,
		stateObjects:      make(map[common.Address]*stateObject),
		stateObjectsDirty: make(map[common.Address]struct{}),
		codeCache:         codeCache,
		journal:           newJournal(),
		logs:              make(map[common.Hash][]*types.Log),
		touched:           mapset.NewSet[common.Address](),
	}, nil
}

func (s *StateDB) setError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Error returns the first internal error (e.g. a trie.ErrMissingNode
// corruption signal) StateDB encountered, if any.
func (s *StateDB) Error() error { return s.err }

// Prepare records the currently-executing transaction hash/index so
// logs emitted during its execution can be tagged correctly.
func (s *StateDB) Prepare(thash common.Hash, ti int) {
	s.thash = thash
	s.txIndex = ti
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	enc, err := s.trie.Get(addr.Bytes())
	if err != nil {
		s.setError(err)
		return nil
	}
	if len(enc) == 0 {
		return nil
	}
	var data types.StateAccount
	if err := rlp.DecodeBytes(enc, &data); err != nil {
		s.setError(err)
		return nil
	}
	obj := newObject(s, addr, data)
	s.stateObjects[addr] = obj
	return obj
}

func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil || obj.deleted {
		obj = s.createObject(addr)
	}
	return obj
}

func (s *StateDB) createObject(addr common.Address) *stateObject {
	prev := s.stateObjects[addr]
	obj := newObject(s, addr, types.StateAccount{})
	if prev == nil {
		s.journal.append(createObjectChange{account: &addr})
	} else {
		s.journal.append(resetObjectChange{prev: prev})
	}
	s.stateObjects[addr] = obj
	return obj
}

// CreateAccount ensures addr exists as a (possibly empty) account,
// preserving any balance a prior transfer might already have set
// (spec.md §4.3 "lazy account materialization on CREATE / first
// transfer").
func (s *StateDB) CreateAccount(addr common.Address) {
	prev := s.getStateObject(addr)
	new := s.createObject(addr)
	if prev != nil {
		new.setBalance(prev.data.Balance)
	}
}

// Exist reports whether addr has ever been touched or loaded.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// Empty reports whether addr satisfies EIP-161 emptiness (spec.md §4.3).
func (s *StateDB) Empty(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.empty()
}

func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.Balance
	}
	return new(big.Int)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.Nonce
	}
	return 0
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Code()
	}
	return nil
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return common.BytesToHash(obj.data.CodeHash)
	}
	return common.Hash{}
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.GetState(key)
	}
	return common.Hash{}
}

func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.GetCommittedState(key)
	}
	return common.Hash{}
}

func (s *StateDB) HasSuicided(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.suicided
}

// AddBalance credits amount to addr, materializing the account if
// necessary (spec.md §4.3 `add_balance`).
func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	if amount.Sign() == 0 {
		s.touch(addr)
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: new(big.Int).Set(obj.data.Balance)})
	obj.setBalance(new(big.Int).Add(obj.data.Balance, amount))
}

// SubBalance debits amount from addr (spec.md §4.3 `sub_balance`).
// Callers are responsible for the insufficient-funds check before
// calling this — it does not itself reject a negative resulting balance.
func (s *StateDB) SubBalance(addr common.Address, amount *big.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	if amount.Sign() == 0 {
		s.touch(addr)
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: new(big.Int).Set(obj.data.Balance)})
	obj.setBalance(new(big.Int).Sub(obj.data.Balance, amount))
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(nonceChange{account: &addr, prev: obj.data.Nonce})
	obj.setNonce(nonce)
}

// SetCode stores code keyed by its own Keccak hash, matching the
// code-storage discipline of spec.md §4.3 (the account leaf only holds
// CodeHash, never the code bytes themselves).
func (s *StateDB) SetCode(addr common.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	codeHash := crypto.Keccak256Hash(code)
	s.journal.append(codeChange{
		account:  &addr,
		prevhash: obj.data.CodeHash,
		prevcode: obj.code,
	})
	obj.setCode(codeHash, code)
	if err := s.db.DiskDB().Put(codeHash.Bytes(), code); err != nil {
		s.setError(err)
	}
	s.codeCache.Add(codeHash, code)
}

// SetState writes a storage slot (spec.md §4.3 `storage_put`).
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	prev, existed := obj.dirtyStorage[key]
	s.journal.append(storageChange{
		account:   &addr,
		key:       key,
		prevalue:  prev,
		prevDirty: existed,
	})
	obj.SetState(key, value)
}

// Suicide marks addr for destruction at the end of the transaction and
// zeroes its balance immediately (spec.md §4.3 `mark_for_destruction`).
// The next Finalise marks the account deleted; IntermediateRoot or Commit
// then removes it from the trie.
func (s *StateDB) Suicide(addr common.Address) bool {
	obj := s.getStateObject(addr)
	if obj == nil {
		return false
	}
	s.journal.append(suicideChange{
		account:     &addr,
		prev:        obj.suicided,
		prevBalance: new(big.Int).Set(obj.data.Balance),
	})
	obj.markSuicided()
	obj.data.Balance = new(big.Int)
	return true
}

func (s *StateDB) touch(addr common.Address) {
	s.journal.append(touchChange{account: &addr})
	s.touched.Add(addr)
}

// AddRefund increases the gas-refund counter SSTORE/SELFDESTRUCT feed
// into, capped at 1/2 of used gas by the transaction executor
// (spec.md §4.3 `refund`, spec.md §4.5 "gas refund cap").
func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

// SubRefund decreases the refund counter; it panics on underflow since
// that can only indicate an interpreter accounting bug (the real
// go-ethereum does the same).
func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic("state: refund counter below zero")
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 { return s.refund }

// AddLog appends a log to the currently-executing transaction's list and
// tags it with position bookkeeping.
func (s *StateDB) AddLog(log *types.Log) {
	s.journal.append(addLogChange{txhash: s.thash})
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	log.Index = s.logSize
	s.logs[s.thash] = append(s.logs[s.thash], log)
	s.logSize++
}

// GetLogs returns the logs emitted by transaction hash.
func (s *StateDB) GetLogs(hash common.Hash) []*types.Log { return s.logs[hash] }

// Logs returns every log recorded so far, in insertion order across all
// transactions processed by this StateDB.
func (s *StateDB) Logs() []*types.Log {
	var logs []*types.Log
	for _, lgs := range s.logs {
		logs = append(logs, lgs...)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Index < logs[j].Index })
	return logs
}

// Snapshot records the current journal length as a revertible
// checkpoint, spec.md §4.3's `snapshot`.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id: id, journalIndex: s.journal.length()})
	return id
}

// RevertToSnapshot undoes every state mutation recorded since the call
// to Snapshot that returned revid, spec.md §4.3's `revert`.
func (s *StateDB) RevertToSnapshot(revid int) {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic("state: revision id not found")
	}
	snapshot := s.validRevisions[idx].journalIndex
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Finalise folds every dirty object's storage into its trie, deletes
// empty-and-touched accounts (EIP-161, spec.md §4.3 "state clearing")
// when deleteEmptyObjects is set, and clears the per-transaction journal.
func (s *StateDB) Finalise(deleteEmptyObjects bool) {
	for addr := range s.journal.dirties {
		obj, exist := s.stateObjects[addr]
		if !exist {
			continue
		}
		if obj.suicided || (deleteEmptyObjects && obj.empty()) {
			obj.deleted = true
		} else {
			obj.updateTrie()
		}
		s.stateObjectsDirty[addr] = struct{}{}
	}
	s.journal = newJournal()
}

// IntermediateRoot computes the state root after folding in every dirty
// object without persisting anything, the value a pre-Byzantium
// Receipt.PostState records (spec.md §4.7).
func (s *StateDB) IntermediateRoot(deleteEmptyObjects bool) common.Hash {
	s.Finalise(deleteEmptyObjects)
	for addr := range s.stateObjectsDirty {
		obj := s.stateObjects[addr]
		if obj.deleted {
			s.trie.Update(addr.Bytes(), nil)
			continue
		}
		obj.updateRoot()
		enc, err := rlp.EncodeToBytes(&obj.data)
		if err != nil {
			s.setError(err)
			continue
		}
		s.trie.Update(addr.Bytes(), enc)
	}
	return s.trie.Hash()
}

// Commit writes every dirty account and storage trie node to the backing
// database and returns the new state root (spec.md §4.3 "commit").
func (s *StateDB) Commit(deleteEmptyObjects bool) (common.Hash, error) {
	s.Finalise(deleteEmptyObjects)
	for addr := range s.stateObjectsDirty {
		obj := s.stateObjects[addr]
		if obj.deleted {
			if err := s.trie.Update(addr.Bytes(), nil); err != nil {
				return common.Hash{}, err
			}
			continue
		}
		if _, err := obj.commitStorageTrie(); err != nil {
			return common.Hash{}, err
		}
		enc, err := rlp.EncodeToBytes(&obj.data)
		if err != nil {
			return common.Hash{}, err
		}
		if err := s.trie.Update(addr.Bytes(), enc); err != nil {
			return common.Hash{}, err
		}
	}
	root, err := s.trie.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	if s.err != nil {
		return root, s.err
	}
	return root, nil
}

var errDeletedAccount = errors.New("state: use of deleted account")

type resetObjectChange struct {
	prev *stateObject
}

func (ch resetObjectChange) revert(s *StateDB) {
	s.stateObjects[ch.prev.address] = ch.prev
}
func (ch resetObjectChange) dirtied() *common.Address { return nil }
