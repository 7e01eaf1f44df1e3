package core

import (
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/params"
)

func TestGenesisToBlockCreditsAlloc(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000a1a")
	balance := big.NewInt(1_000_000)

	g := &Genesis{
		Config:     params.AllProtocolChanges,
		GasLimit:   5_000_000,
		Difficulty: big.NewInt(1),
		Alloc: params.GenesisAlloc{
			addr: {Balance: balance},
		},
	}
	block, db, err := g.ToBlock()
	if err != nil {
		t.Fatalf("ToBlock: %v", err)
	}
	if db == nil {
		t.Fatalf("expected a non-nil trie database")
	}
	if block.NumberU64() != 0 {
		t.Fatalf("genesis block number: got %d, want 0", block.NumberU64())
	}
	if block.Root() == (common.Hash{}) {
		t.Fatalf("genesis root should not be the zero hash once an account is allocated")
	}

	statedb, err := openStateAt(block.Root(), db)
	if err != nil {
		t.Fatalf("reopen genesis state: %v", err)
	}
	if got := statedb.GetBalance(addr); got.Cmp(balance) != 0 {
		t.Fatalf("allocated balance: got %s, want %s", got, balance)
	}
}

func TestGenesisToBlockDefaultsGasLimitAndDifficulty(t *testing.T) {
	g := &Genesis{Config: params.AllProtocolChanges, Alloc: params.GenesisAlloc{}}
	block, _, err := g.ToBlock()
	if err != nil {
		t.Fatalf("ToBlock: %v", err)
	}
	if block.GasLimit() != params.MinGasLimit {
		t.Fatalf("gas limit: got %d, want %d", block.GasLimit(), params.MinGasLimit)
	}
	if block.Difficulty().Cmp(params.MinimumDifficulty) != 0 {
		t.Fatalf("difficulty: got %s, want %s", block.Difficulty(), params.MinimumDifficulty)
	}
}
