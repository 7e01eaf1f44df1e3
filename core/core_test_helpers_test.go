package core

import (
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// openStateAt reopens a StateDB rooted at root against db, shared by the
// genesis/blockchain tests that need to inspect post-state after a
// commit.
func openStateAt(root common.Hash, db *trie.Database) (*state.StateDB, error) {
	return state.New(root, db)
}
