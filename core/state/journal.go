package state

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
)

// journalEntry is one undoable state mutation. Reverting replays entries
// in reverse order back to a snapshot index, the mechanism spec.md §4.3's
// `snapshot`/`revert` operations rely on to unwind a failed call frame
// without discarding the whole transaction.
type journalEntry interface {
	revert(*StateDB)
	dirtied() *common.Address
}

type journal struct {
	entries []journalEntry
	dirties map[common.Address]int // address -> number of dirtying entries
}

func newJournal() *journal {
	return &journal{dirties: make(map[common.Address]int)}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// revert undoes every entry recorded after snapshot index snapshot.
func (j *journal) revert(db *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(db)
		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int { return len(j.entries) }

type (
	createObjectChange struct {
		account *common.Address
	}
	balanceChange struct {
		account *common.Address
		prev    *big.Int
	}
	nonceChange struct {
		account *common.Address
		prev    uint64
	}
	storageChange struct {
		account      *common.Address
		key, prevalue common.Hash
		prevDirty    bool
	}
	codeChange struct {
		account            *common.Address
		prevcode, prevhash []byte
	}
	suicideChange struct {
		account     *common.Address
		prev        bool
		prevBalance *big.Int
	}
	touchChange struct {
		account *common.Address
	}
	refundChange struct {
		prev uint64
	}
	addLogChange struct {
		txhash common.Hash
	}
)

func (ch createObjectChange) revert(s *StateDB) {
	delete(s.stateObjects, *ch.account)
	delete(s.stateObjectsDirty, *ch.account)
}
func (ch createObjectChange) dirtied() *common.Address { return ch.account }

func (ch balanceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setBalance(ch.prev)
}
func (ch balanceChange) dirtied() *common.Address { return ch.account }

func (ch nonceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setNonce(ch.prev)
}
func (ch nonceChange) dirtied() *common.Address { return ch.account }

func (ch storageChange) revert(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	if ch.prevDirty {
		obj.dirtyStorage[ch.key] = ch.prevalue
	} else {
		delete(obj.dirtyStorage, ch.key)
	}
}
func (ch storageChange) dirtied() *common.Address { return ch.account }

func (ch codeChange) revert(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	obj.code = ch.prevcode
	obj.data.CodeHash = ch.prevhash
	obj.dirtyCode = false
}
func (ch codeChange) dirtied() *common.Address { return ch.account }

func (ch suicideChange) revert(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	obj.suicided = ch.prev
	obj.setBalance(ch.prevBalance)
}
func (ch suicideChange) dirtied() *common.Address { return ch.account }

func (ch touchChange) revert(s *StateDB)           {}
func (ch touchChange) dirtied() *common.Address    { return ch.account }

func (ch refundChange) revert(s *StateDB)        { s.refund = ch.prev }
func (ch refundChange) dirtied() *common.Address { return nil }

func (ch addLogChange) revert(s *StateDB) {
	logs := s.logs[ch.txhash]
	if len(logs) == 1 {
		delete(s.logs, ch.txhash)
	} else {
		s.logs[ch.txhash] = logs[:len(logs)-1]
	}
	s.logSize--
}
func (ch addLogChange) dirtied() *common.Address { return nil }
