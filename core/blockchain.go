package core

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/consensus"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/trie"
)

var (
	ErrUnknownAncestor  = errors.New("core: unknown ancestor")
	ErrRootMismatch     = errors.New("core: post-state root mismatch")
	ErrGasUsedMismatch  = errors.New("core: gas used mismatch")
	ErrReceiptMismatch  = errors.New("core: receipt root mismatch")
	ErrAlreadyKnown     = errors.New("core: block already known")
)

// BlockChain is the in-memory block tree of spec.md §4.7: every header
// this node has seen is kept, keyed by hash, with the canonical chain
// selected by greatest cumulative difficulty. It plays the role of
// consensus.ChainHeaderReader for the engine and state processor it
// drives.
type BlockChain struct {
	config *params.ChainConfig
	engine consensus.Engine
	db     *trie.Database

	mu sync.RWMutex

	blocks  map[common.Hash]*types.Block
	headers map[common.Hash]*types.Header
	tds     map[common.Hash]*big.Int

	canonical map[uint64]common.Hash // number -> canonical hash

	genesis      *types.Block
	currentBlock *types.Block
	currentTD    *big.Int
}

// NewBlockChain seeds a BlockChain with genesis as block 0 of the
// canonical chain.
func NewBlockChain(config *params.ChainConfig, engine consensus.Engine, db *trie.Database, genesis *types.Block) *BlockChain {
	bc := &BlockChain{
		config:    config,
		engine:    engine,
		db:        db,
		blocks:    make(map[common.Hash]*types.Block),
		headers:   make(map[common.Hash]*types.Header),
		tds:       make(map[common.Hash]*big.Int),
		canonical: make(map[uint64]common.Hash),
		genesis:   genesis,
	}
	hash := genesis.Hash()
	bc.blocks[hash] = genesis
	bc.headers[hash] = genesis.Header()
	bc.tds[hash] = new(big.Int).Set(genesis.Difficulty())
	bc.canonical[0] = hash
	bc.currentBlock = genesis
	bc.currentTD = new(big.Int).Set(genesis.Difficulty())
	return bc
}

// Config implements consensus.ChainHeaderReader.
func (bc *BlockChain) Config() *params.ChainConfig { return bc.config }

// GetHeader implements consensus.ChainHeaderReader, returning any header
// this chain has seen regardless of whether it is canonical.
func (bc *BlockChain) GetHeader(hash common.Hash, number uint64) *types.Header {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	h, ok := bc.headers[hash]
	if !ok || h.Number.Uint64() != number {
		return nil
	}
	return h
}

// GetHeaderByNumber implements consensus.ChainHeaderReader, resolving
// number along the canonical chain only (spec.md §4.7's "best block"
// rule — BLOCKHASH and ancestor lookups always walk the canonical
// chain, never a side branch).
func (bc *BlockChain) GetHeaderByNumber(number uint64) *types.Header {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	hash, ok := bc.canonical[number]
	if !ok {
		return nil
	}
	return bc.headers[hash]
}

// CurrentBlock returns the head of the canonical chain.
func (bc *BlockChain) CurrentBlock() *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.currentBlock
}

// GetBlock returns a previously inserted block by hash, canonical or
// not.
func (bc *BlockChain) GetBlock(hash common.Hash) *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[hash]
}

// InsertBlock validates block's header against its parent, replays its
// transactions, and checks the resulting state/receipts/gas against the
// header before admitting it — spec.md §4.7's "process_block" followed
// by root verification. On success it updates the canonical chain if
// block's total difficulty exceeds the current head's.
func (bc *BlockChain) InsertBlock(block *types.Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	hash := block.Hash()
	if _, ok := bc.blocks[hash]; ok {
		return ErrAlreadyKnown
	}

	parent, ok := bc.blocks[block.ParentHash()]
	if !ok {
		return ErrUnknownAncestor
	}
	header := block.Header()

	if err := bc.engine.VerifyHeader(bc, header, parent.Header()); err != nil {
		return fmt.Errorf("core: header validation: %w", err)
	}

	statedb, err := state.New(parent.Root(), bc.db)
	if err != nil {
		return fmt.Errorf("core: open parent state: %w", err)
	}

	processor := NewStateProcessor(bc.config, bc.engine, bc)
	receipts, usedGas, err := processor.Process(block, statedb)
	if err != nil {
		return fmt.Errorf("core: process block: %w", err)
	}
	if usedGas != header.GasUsed {
		return fmt.Errorf("%w: have %d, want %d", ErrGasUsedMismatch, usedGas, header.GasUsed)
	}

	receiptRoot := types.DeriveSha(types.Receipts(receipts))
	if len(receipts) == 0 {
		receiptRoot = types.EmptyRootHash
	}
	if receiptRoot != header.ReceiptHash {
		return fmt.Errorf("%w: have %s, want %s", ErrReceiptMismatch, receiptRoot, header.ReceiptHash)
	}

	rules := bc.config.Rules(header.Number)
	root := statedb.IntermediateRoot(rules.IsEIP158)
	if root != header.Root {
		return fmt.Errorf("%w: have %s, want %s", ErrRootMismatch, root, header.Root)
	}
	if _, err := statedb.Commit(rules.IsEIP158); err != nil {
		return fmt.Errorf("core: commit state: %w", err)
	}

	td := new(big.Int).Add(bc.tds[parent.Hash()], block.Difficulty())

	bc.blocks[hash] = block
	bc.headers[hash] = header
	bc.tds[hash] = td

	if td.Cmp(bc.currentTD) > 0 {
		bc.reorgTo(block, td)
	}
	return nil
}

// reorgTo makes block (with total difficulty td) the new canonical
// head, rewriting the number->hash canonical index back to the common
// ancestor with the previous head.
func (bc *BlockChain) reorgTo(block *types.Block, td *big.Int) {
	newChain := []*types.Block{block}
	cursor := block
	for {
		if cursor.NumberU64() == 0 {
			break
		}
		if existing, ok := bc.canonical[cursor.NumberU64()-1]; ok && existing == cursor.ParentHash() {
			break
		}
		parent, ok := bc.blocks[cursor.ParentHash()]
		if !ok {
			break
		}
		newChain = append(newChain, parent)
		cursor = parent
	}
	for _, b := range newChain {
		bc.canonical[b.NumberU64()] = b.Hash()
	}
	bc.currentBlock = block
	bc.currentTD = td
}
