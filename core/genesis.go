package core

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// Genesis builds block 0 from a ChainConfig and its initial account
// allocation (SPEC_FULL.md §C.3): enough to give the block tree and
// header-validation tests a concrete starting state root rather than
// requiring an externally supplied genesis block.
type Genesis struct {
	Config     *params.ChainConfig
	Nonce      uint64
	Timestamp  uint64
	ExtraData  []byte
	GasLimit   uint64
	Difficulty *big.Int
	Coinbase   common.Address
	Alloc      params.GenesisAlloc
}

// ToBlock writes g.Alloc into a fresh StateDB backed by an in-memory
// trie database, commits it, and returns the resulting genesis Block
// plus the trie.Database the StateDB was built on (callers reuse it for
// every later block so trie nodes accumulate in one place).
func (g *Genesis) ToBlock() (*types.Block, *trie.Database, error) {
	db := trie.NewDatabase(memorydb.New())
	statedb, err := state.New(common.Hash{}, db)
	if err != nil {
		return nil, nil, err
	}

	for addr, account := range g.Alloc {
		statedb.AddBalance(addr, account.Balance)
		statedb.SetNonce(addr, account.Nonce)
		if len(account.Code) > 0 {
			statedb.SetCode(addr, account.Code)
		}
		for key, value := range account.Storage {
			statedb.SetState(addr, key, value)
		}
	}

	root := statedb.IntermediateRoot(false)
	if _, err := statedb.Commit(false); err != nil {
		return nil, nil, err
	}

	head := &types.Header{
		Number:      new(big.Int),
		Nonce:       types.EncodeNonce(g.Nonce),
		Time:        g.Timestamp,
		ParentHash:  common.Hash{},
		Extra:       g.ExtraData,
		GasLimit:    g.GasLimit,
		GasUsed:     0,
		Difficulty:  g.Difficulty,
		Coinbase:    g.Coinbase,
		Root:        root,
		UncleHash:   types.EmptyUncleHash,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
	}
	if head.GasLimit == 0 {
		head.GasLimit = params.MinGasLimit
	}
	if head.Difficulty == nil {
		head.Difficulty = params.MinimumDifficulty
	}

	return types.NewBlockWithHeader(head), db, nil
}

// DefaultGenesisAlloc is a small funded-account set convenient for tests
// and local chains: it does not attempt to reproduce mainnet's genesis
// allocation, which is out of scope (spec.md's Non-goals exclude
// reproducing historical chain data).
func DefaultGenesisAlloc() params.GenesisAlloc {
	faucet := common.HexToAddress("0x00000000000000000000000000000000000001")
	balance, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	return params.GenesisAlloc{
		faucet: {Balance: balance},
	}
}
