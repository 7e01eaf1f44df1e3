package types

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
)

// StateAccount is the RLP-encoded consensus representation of an account
// as it is stored in the world state trie (spec.md §4.3 "Account"):
// Nonce, Balance, the account's storage trie root, and the hash of its
// bytecode. Every field is consensus-critical and its field order fixes
// the RLP tuple shape.
type StateAccount struct {
	Nonce    uint64
	Balance  *big.Int
	Root     common.Hash // merkle root of the storage trie
	CodeHash []byte
}

// EmptyCodeHash is Keccak256(nil), the CodeHash of an account with no
// code, used both to construct new accounts and to test for "has code".
var EmptyCodeHash = common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// EmptyRootHash is the root hash of an account with an empty storage
// trie, Keccak(rlp("")).
var EmptyRootHash = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

// NewEmptyStateAccount returns the account shape of a freshly-created,
// code-less account (spec.md §4.3 "empty account").
func NewEmptyStateAccount() *StateAccount {
	return &StateAccount{
		Balance:  new(big.Int),
		Root:     EmptyRootHash,
		CodeHash: EmptyCodeHash.Bytes(),
	}
}

// Empty reports whether the account satisfies EIP-161's emptiness test:
// zero nonce, zero balance, and no code (spec.md §4.3 "touched-but-empty").
func (a *StateAccount) Empty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.Sign() == 0) && bytesEqual(a.CodeHash, EmptyCodeHash.Bytes())
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
