package core

import (
	"crypto/ecdsa"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/consensus/ethash"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

// signTx signs tx with key, EIP-155 style when chainID is non-zero.
func signTx(t *testing.T, tx *types.Transaction, key *ecdsa.PrivateKey, chainID *big.Int) *types.Transaction {
	t.Helper()
	h := tx.SigningHash(chainID)
	sig, err := crypto.Sign(h.Bytes(), key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tx.WithSignature(sig[64], new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64]), chainID)
}

func testChainConfig() *params.ChainConfig {
	cfg := *params.AllProtocolChanges
	return &cfg
}

func newTestChain(t *testing.T, alloc params.GenesisAlloc) (*BlockChain, *ethash.Ethash) {
	t.Helper()
	config := testChainConfig()
	engine := ethash.New(nil)

	g := &Genesis{
		Config:     config,
		GasLimit:   8_000_000,
		Difficulty: params.MinimumDifficulty,
		Alloc:      alloc,
	}
	genesisBlock, db, err := g.ToBlock()
	if err != nil {
		t.Fatalf("genesis ToBlock: %v", err)
	}
	return NewBlockChain(config, engine, db, genesisBlock), engine
}

// buildAndInsertBlock assembles a block on top of bc's current head
// carrying txs, exactly as a miner would: provisional header, process
// transactions to learn gas/receipts/state root, then reassemble the
// final header before handing it to InsertBlock.
func buildAndInsertBlock(t *testing.T, bc *BlockChain, engine *ethash.Ethash, txs []*types.Transaction) *types.Block {
	t.Helper()
	parent := bc.CurrentBlock()
	parentHeader := parent.Header()

	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Add(parentHeader.Number, big.NewInt(1)),
		Time:       parentHeader.Time + 15,
		GasLimit:   parentHeader.GasLimit,
		Coinbase:   common.HexToAddress("0xc0ffee0000000000000000000000000000c0de"),
		Extra:      []byte{},
	}
	header.Difficulty = engine.CalcDifficulty(bc, header.Time, parentHeader)

	block := types.NewBlockWithHeader(header).WithBody(txs, nil)

	parentRoot := parent.Root()
	statedb, err := openStateAt(parentRoot, bc.db)
	if err != nil {
		t.Fatalf("open parent state: %v", err)
	}
	processor := NewStateProcessor(bc.config, engine, bc)
	receipts, usedGas, err := processor.Process(block, statedb)
	if err != nil {
		t.Fatalf("process block: %v", err)
	}
	header.GasUsed = usedGas
	rules := bc.config.Rules(header.Number)
	header.Root = statedb.IntermediateRoot(rules.IsEIP158)

	final := types.NewBlock(header, txs, nil, receipts)
	if err := bc.InsertBlock(final); err != nil {
		t.Fatalf("insert block: %v", err)
	}
	return final
}

func TestBlockChainInsertSingleTransferBlock(t *testing.T) {
	key, err := crypto.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")

	bc, engine := newTestChain(t, params.GenesisAlloc{
		from: {Balance: big.NewInt(1_000_000_000_000)},
	})

	tx := types.NewTransaction(0, to, big.NewInt(5000), 21000, big.NewInt(1), nil)
	signed := signTx(t, tx, key, big.NewInt(0))

	block := buildAndInsertBlock(t, bc, engine, []*types.Transaction{signed})

	if bc.CurrentBlock().Hash() != block.Hash() {
		t.Fatalf("canonical head did not advance to the inserted block")
	}

	statedb, err := openStateAt(block.Root(), bc.db)
	if err != nil {
		t.Fatalf("open post-state: %v", err)
	}
	if got := statedb.GetBalance(to); got.Cmp(big.NewInt(5000)) != 0 {
		t.Fatalf("recipient balance: got %s, want 5000", got)
	}
	if got := statedb.GetNonce(from); got != 1 {
		t.Fatalf("sender nonce: got %d, want 1", got)
	}
}

func TestBlockChainRejectsUnknownAncestor(t *testing.T) {
	bc, _ := newTestChain(t, params.GenesisAlloc{})
	orphan := types.NewBlockWithHeader(&types.Header{
		ParentHash: common.HexToHash("0xdead"),
		Number:     big.NewInt(1),
		Difficulty: big.NewInt(1),
	})
	if err := bc.InsertBlock(orphan); err != ErrUnknownAncestor {
		t.Fatalf("got %v, want ErrUnknownAncestor", err)
	}
}

func TestBlockChainCanonicalIndexAdvances(t *testing.T) {
	bc, engine := newTestChain(t, params.GenesisAlloc{})

	blockA := buildAndInsertBlock(t, bc, engine, nil)
	if bc.CurrentBlock().Hash() != blockA.Hash() {
		t.Fatalf("expected chain head to be blockA")
	}
	if h := bc.GetHeaderByNumber(1); h == nil || h.Hash() != blockA.Hash() {
		t.Fatalf("canonical index did not record block 1")
	}
}
