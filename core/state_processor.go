package core

import (
	"fmt"
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/consensus"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/core/vm"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

// StateProcessor applies every transaction in a block to a StateDB and
// assembles the resulting receipts, then hands off to the consensus
// engine for the block/ommer reward step (spec.md §4.6's full sequence:
// apply transactions in order, then finalize).
type StateProcessor struct {
	config *params.ChainConfig
	engine consensus.Engine
	chain  consensus.ChainHeaderReader
}

// NewStateProcessor returns a StateProcessor bound to config, validating
// headers and crediting rewards via engine, and resolving ancestors via
// chain.
func NewStateProcessor(config *params.ChainConfig, engine consensus.Engine, chain consensus.ChainHeaderReader) *StateProcessor {
	return &StateProcessor{config: config, engine: engine, chain: chain}
}

// Process runs every transaction in block against statedb, crediting
// gas fees and (via the engine) block/ommer rewards, and returns the
// assembled receipts plus total gas used. It does not itself verify the
// resulting roots against the header — the caller (the block tree,
// core/blockchain.go) does that once all receipts are in hand.
func (p *StateProcessor) Process(block *types.Block, statedb *state.StateDB) ([]*types.Receipt, uint64, error) {
	var (
		receipts []*types.Receipt
		usedGas  uint64
		header   = block.Header()
		rules    = p.config.Rules(header.Number)
	)

	blockCtx := NewEVMBlockContext(header, p.chain)

	for i, tx := range block.Transactions() {
		msg, err := TransactionToMessage(tx, p.config.ChainID)
		if err != nil {
			return nil, 0, fmt.Errorf("core: transaction %d: %w", i, err)
		}

		statedb.Prepare(tx.Hash(), i)

		txCtx := vm.TxContext{Origin: msg.From, GasPrice: msg.GasPrice}
		evm := vm.NewEVM(blockCtx, txCtx, statedb, p.config)

		result, err := NewStateTransition(evm, msg).Apply()
		if err != nil {
			return nil, 0, fmt.Errorf("core: transaction %d: %w", i, err)
		}
		usedGas += result.UsedGas

		receipt := p.makeReceipt(rules, statedb, header, tx, result, usedGas)
		receipts = append(receipts, receipt)
	}

	p.engine.Finalize(p.chain, header, statedb, block.Uncles())

	return receipts, usedGas, nil
}

// makeReceipt assembles one receipt per spec.md §4.7: pre-Byzantium
// receipts carry the intermediate state root, Byzantium+ receipts carry
// a status byte instead (the Open Question resolved in DESIGN.md).
func (p *StateProcessor) makeReceipt(rules params.Rules, statedb *state.StateDB, header *types.Header, tx *types.Transaction, result *ExecutionResult, cumulativeGasUsed uint64) *types.Receipt {
	var root []byte
	if rules.IsByzantium {
		statedb.Finalise(rules.IsEIP158)
	} else {
		root = statedb.IntermediateRoot(rules.IsEIP158).Bytes()
	}
	receipt := types.NewReceipt(root, result.Failed, cumulativeGasUsed)
	receipt.TxHash = tx.Hash()
	receipt.GasUsed = result.UsedGas
	receipt.Logs = statedb.GetLogs(tx.Hash())
	receipt.Bloom = types.CreateBloom([]*types.Receipt{receipt})

	if tx.To() == nil {
		from := msgFromOrZero(tx, p.config.ChainID)
		receipt.ContractAddress = crypto.CreateAddress(from, statedb.GetNonce(from)-1)
	}
	return receipt
}

func msgFromOrZero(tx *types.Transaction, chainID *big.Int) common.Address {
	from, err := tx.Sender(chainID)
	if err != nil {
		return common.Address{}
	}
	return from
}

// NewEVMBlockContext builds the vm.BlockContext for header, resolving
// ancestor hashes for the BLOCKHASH opcode via chain.
func NewEVMBlockContext(header *types.Header, chain consensus.ChainHeaderReader) vm.BlockContext {
	return vm.BlockContext{
		Coinbase:    header.Coinbase,
		GasLimit:    header.GasLimit,
		BlockNumber: new(big.Int).Set(header.Number),
		Time:        header.Time,
		Difficulty:  new(big.Int).Set(header.Difficulty),
		GetHash:     newBlockHashFunc(header, chain),
	}
}

// newBlockHashFunc returns the BLOCKHASH opcode's lookup function,
// walking back through chain by number (spec.md §4.4's 256-ancestor
// window is enforced by the opcode itself via opBlockhash, not here).
func newBlockHashFunc(header *types.Header, chain consensus.ChainHeaderReader) func(n uint64) common.Hash {
	return func(n uint64) common.Hash {
		h := chain.GetHeaderByNumber(n)
		if h == nil {
			return common.Hash{}
		}
		return h.Hash()
	}
}
