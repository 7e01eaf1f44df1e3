package core

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/consensus/ethash"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

func TestStateProcessorByzantiumReceiptCarriesStatus(t *testing.T) {
	key, err := crypto.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")

	bc, engine := newTestChain(t, params.GenesisAlloc{
		from: {Balance: big.NewInt(1_000_000_000_000)},
	})

	tx := types.NewTransaction(0, to, big.NewInt(1), 21000, big.NewInt(1), nil)
	signed := signTx(t, tx, key, big.NewInt(0))

	parent := bc.CurrentBlock()
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     big.NewInt(1),
		Time:       parent.Time() + 15,
		GasLimit:   parent.GasLimit(),
		Coinbase:   common.HexToAddress("0xc0ffee0000000000000000000000000000c0de"),
	}
	header.Difficulty = engine.CalcDifficulty(bc, header.Time, parent.Header())

	block := types.NewBlockWithHeader(header).WithBody([]*types.Transaction{signed}, nil)

	statedb, err := openStateAt(parent.Root(), bc.db)
	if err != nil {
		t.Fatalf("open parent state: %v", err)
	}
	processor := NewStateProcessor(bc.config, engine, bc)
	receipts, usedGas, err := processor.Process(block, statedb)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if usedGas != 21000 {
		t.Fatalf("used gas: got %d, want 21000", usedGas)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts))
	}
	r := receipts[0]
	if len(r.PostState) != 0 {
		t.Fatalf("byzantium receipt should not carry a PostState root, got %x", r.PostState)
	}
	if r.Status != types.ReceiptStatusSuccessful {
		t.Fatalf("status: got %d, want successful", r.Status)
	}
	if r.CumulativeGasUsed != 21000 {
		t.Fatalf("cumulative gas used: got %d, want 21000", r.CumulativeGasUsed)
	}
}

func TestStateProcessorPreByzantiumReceiptCarriesPostState(t *testing.T) {
	config := testChainConfig()
	config.ByzantiumBlock = big.NewInt(100) // not yet active at block 1
	engine := ethash.New(nil)

	key, err := crypto.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")

	g := &Genesis{
		Config:     config,
		GasLimit:   8_000_000,
		Difficulty: params.MinimumDifficulty,
		Alloc: params.GenesisAlloc{
			from: {Balance: big.NewInt(1_000_000_000_000)},
		},
	}
	genesisBlock, db, err := g.ToBlock()
	if err != nil {
		t.Fatalf("genesis: %v", err)
	}
	bc := NewBlockChain(config, engine, db, genesisBlock)

	tx := types.NewTransaction(0, to, big.NewInt(1), 21000, big.NewInt(1), nil)
	signed := signTx(t, tx, key, big.NewInt(0))

	parent := bc.CurrentBlock()
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     big.NewInt(1),
		Time:       parent.Time() + 15,
		GasLimit:   parent.GasLimit(),
	}
	header.Difficulty = engine.CalcDifficulty(bc, header.Time, parent.Header())
	block := types.NewBlockWithHeader(header).WithBody([]*types.Transaction{signed}, nil)

	statedb, err := openStateAt(parent.Root(), bc.db)
	if err != nil {
		t.Fatalf("open parent state: %v", err)
	}
	processor := NewStateProcessor(bc.config, engine, bc)
	receipts, _, err := processor.Process(block, statedb)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(receipts[0].PostState) == 0 {
		t.Fatalf("pre-byzantium receipt should carry a PostState root")
	}
}
