package snapshot

import (
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
)

func TestNewChunkSortsAccountRange(t *testing.T) {
	unsorted := []AccountEntry{
		{HashedAddress: common.HexToHash("0x03"), Account: *types.NewEmptyStateAccount()},
		{HashedAddress: common.HexToHash("0x01"), Account: *types.NewEmptyStateAccount()},
		{HashedAddress: common.HexToHash("0x02"), Account: *types.NewEmptyStateAccount()},
	}
	c := NewChunk(0, 0, 10, nil, unsorted)
	for i := 1; i < len(c.AccountRange); i++ {
		if c.AccountRange[i-1].HashedAddress.Cmp(c.AccountRange[i].HashedAddress) >= 0 {
			t.Fatalf("account range not sorted at index %d", i)
		}
	}
}

func TestChunkEncodeDecodeRoundTrip(t *testing.T) {
	header := &types.Header{
		Number:     big.NewInt(5),
		Difficulty: big.NewInt(1),
		GasLimit:   8_000_000,
	}
	accounts := []AccountEntry{
		{HashedAddress: common.HexToHash("0x01"), Account: *types.NewEmptyStateAccount()},
		{HashedAddress: common.HexToHash("0x02"), Account: *types.NewEmptyStateAccount()},
	}
	c := NewChunk(7, 1, 5, []*types.Header{header}, accounts)

	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeChunk(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Index != c.Index || decoded.FromBlock != c.FromBlock || decoded.ToBlock != c.ToBlock {
		t.Fatalf("chunk header mismatch: got %+v, want %+v", decoded, c)
	}
	if len(decoded.AccountRange) != len(c.AccountRange) {
		t.Fatalf("account range length mismatch: got %d, want %d", len(decoded.AccountRange), len(c.AccountRange))
	}
	if decoded.PivotBlock() != 5 {
		t.Fatalf("pivot block: got %d, want 5", decoded.PivotBlock())
	}
}

func TestDecodeChunkRejectsInvertedBlockRange(t *testing.T) {
	c := &Chunk{Index: 1, FromBlock: 10, ToBlock: 2}
	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeChunk(enc); err == nil {
		t.Fatalf("expected an error for inverted block range")
	}
}

func TestDecodeChunkRejectsUnsortedAccountRange(t *testing.T) {
	c := &Chunk{
		Index:     1,
		FromBlock: 0,
		ToBlock:   1,
		AccountRange: []AccountEntry{
			{HashedAddress: common.HexToHash("0x02"), Account: *types.NewEmptyStateAccount()},
			{HashedAddress: common.HexToHash("0x01"), Account: *types.NewEmptyStateAccount()},
		},
	}
	enc, err := c.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeChunk(enc); err == nil {
		t.Fatalf("expected an error for an unsorted account range")
	}
}
