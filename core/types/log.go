package types

import "github.com/mana-ethereum/mana-sub005/common"

// Log is one LOG0-LOG4 emission (spec.md §4.4 "Logging"): the emitting
// contract's address, its indexed topics, and the opaque data payload.
// BlockNumber/TxHash/TxIndex/Index are consensus-irrelevant bookkeeping
// recorded for callers (e.g. an RPC layer) and are not RLP-encoded.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	BlockNumber uint64      `rlp:"-"`
	TxHash      common.Hash `rlp:"-"`
	TxIndex     uint        `rlp:"-"`
	BlockHash   common.Hash `rlp:"-"`
	Index       uint        `rlp:"-"`
	Removed     bool        `rlp:"-"`
}
