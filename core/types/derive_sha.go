package types

import (
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/rlp"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// DerivableList is implemented by Transactions and Receipts: an ordered
// list whose i-th RLP encoding is stored under trie key rlp(uint(i)),
// spec.md §4.6's "transactions root"/"receipts root" construction.
type DerivableList interface {
	Len() int
	EncodeIndex(i int, w *[]byte)
}

// DeriveSha builds an ephemeral trie keyed by each element's RLP-encoded
// index and returns its root hash. Used for both the transactions root
// and the receipts root of a block header.
func DeriveSha(list DerivableList) common.Hash {
	t, _ := trie.New(trie.NewDatabase(memorydb.New()), common.Hash{})
	var buf []byte
	for i := 0; i < list.Len(); i++ {
		key, err := rlp.EncodeToBytes(uint(i))
		if err != nil {
			panic(err)
		}
		list.EncodeIndex(i, &buf)
		if err := t.Update(key, append([]byte(nil), buf...)); err != nil {
			panic(err)
		}
	}
	return t.Hash()
}
