// Package snapshot implements the warp/state-chunk codec
// (SPEC_FULL.md §C.4): bounded, self-contained pieces of world state a
// syncing peer can request instead of walking the live trie node by
// node, in the shape of go-ethereum's snap protocol and Parity's warp
// sync (not their wire protocols, just the chunk layout).
package snapshot

import (
	"fmt"
	"sort"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/rlp"
)

// AccountEntry is one (hashed_address, account) pair in a chunk's
// account range.
type AccountEntry struct {
	HashedAddress common.Hash
	Account       types.StateAccount
}

// Chunk is one snapshot piece: the headers spanning block_range and a
// sorted account_range slice covering a contiguous interval of the
// world-state trie's keyspace at the chunk's pivot block (block_range.To).
type Chunk struct {
	Index        uint64
	FromBlock    uint64
	ToBlock      uint64
	Headers      []*types.Header
	AccountRange []AccountEntry
}

// chunkRLP mirrors Chunk's wire shape: (chunk_index, block_range,
// rlp(headers), rlp(account_range)) per SPEC_FULL.md §C.4, with
// block_range flattened to its two bounds.
type chunkRLP struct {
	Index        uint64
	FromBlock    uint64
	ToBlock      uint64
	Headers      []*types.Header
	AccountRange []AccountEntry
}

// NewChunk builds a Chunk covering [fromBlock, toBlock] with headers and
// accountRange, sorting accountRange by hashed address so the range is
// well-ordered regardless of iteration order the caller collected it in.
func NewChunk(index uint64, fromBlock, toBlock uint64, headers []*types.Header, accountRange []AccountEntry) *Chunk {
	sorted := make([]AccountEntry, len(accountRange))
	copy(sorted, accountRange)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].HashedAddress.Cmp(sorted[j].HashedAddress) < 0
	})
	return &Chunk{
		Index:        index,
		FromBlock:    fromBlock,
		ToBlock:      toBlock,
		Headers:      headers,
		AccountRange: sorted,
	}
}

// Encode RLP-encodes c into its wire form.
func (c *Chunk) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(&chunkRLP{
		Index:        c.Index,
		FromBlock:    c.FromBlock,
		ToBlock:      c.ToBlock,
		Headers:      c.Headers,
		AccountRange: c.AccountRange,
	})
}

// DecodeChunk parses enc back into a Chunk, validating that the account
// range is sorted and that block_range is non-empty and well-formed.
func DecodeChunk(enc []byte) (*Chunk, error) {
	var raw chunkRLP
	if err := rlp.DecodeBytes(enc, &raw); err != nil {
		return nil, fmt.Errorf("snapshot: decode chunk: %w", err)
	}
	if raw.FromBlock > raw.ToBlock {
		return nil, fmt.Errorf("snapshot: chunk %d has inverted block range [%d,%d]", raw.Index, raw.FromBlock, raw.ToBlock)
	}
	for i := 1; i < len(raw.AccountRange); i++ {
		if raw.AccountRange[i-1].HashedAddress.Cmp(raw.AccountRange[i].HashedAddress) >= 0 {
			return nil, fmt.Errorf("snapshot: chunk %d account range not strictly sorted at index %d", raw.Index, i)
		}
	}
	return &Chunk{
		Index:        raw.Index,
		FromBlock:    raw.FromBlock,
		ToBlock:      raw.ToBlock,
		Headers:      raw.Headers,
		AccountRange: raw.AccountRange,
	}, nil
}

// PivotBlock returns the block number this chunk's account range is a
// state view of — the tail of its block range, matching snap sync's
// convention of serving state as of the most recent header in a chunk.
func (c *Chunk) PivotBlock() uint64 { return c.ToBlock }
