// Package params holds the per-fork chain configuration, genesis
// parameters and protocol constants of spec.md §4.4's "ChainConfig": fork
// block numbers, block reward schedule, and gas-limit/difficulty bound
// divisors.
package params

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
)

// ChainConfig carries the fork cutover block numbers and chain id a header
// validator, transaction executor and EVM interpreter all read from to
// select per-fork behavior (spec.md §4.4, "Fork parameterization").
//
// The fork cutover list is implemented as explicit block-number fields
// rather than named fork identifiers, per the Open Question decision in
// DESIGN.md: it is treated as authoritative Ethereum-mainnet history, not
// as stated by any single source.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"`

	HomesteadBlock *big.Int `json:"homesteadBlock,omitempty"`
	EIP150Block    *big.Int `json:"eip150Block,omitempty"`
	EIP155Block    *big.Int `json:"eip155Block,omitempty"`
	EIP158Block    *big.Int `json:"eip158Block,omitempty"` // state-clearing (EIP-161)
	ByzantiumBlock *big.Int `json:"byzantiumBlock,omitempty"`

	// MinDifficulty records the chain's difficulty floor (spec.md §4.8).
	// CalcDifficulty does not read it; it clamps to params.MinimumDifficulty.
	MinDifficulty *big.Int `json:"-"`
}

// MainnetChainConfig is the Ethereum mainnet Frontier-through-Byzantium
// fork schedule.
var MainnetChainConfig = &ChainConfig{
	ChainID:        big.NewInt(1),
	HomesteadBlock: big.NewInt(1_150_000),
	EIP150Block:    big.NewInt(2_463_000),
	EIP155Block:    big.NewInt(2_675_000),
	EIP158Block:    big.NewInt(2_675_000),
	ByzantiumBlock: big.NewInt(4_370_000),
	MinDifficulty:  big.NewInt(131_072),
}

// AllProtocolChanges is a config with every fork enabled from block 0,
// used by unit tests that want Byzantium semantics without worrying about
// block numbers.
var AllProtocolChanges = &ChainConfig{
	ChainID:        big.NewInt(1337),
	HomesteadBlock: big.NewInt(0),
	EIP150Block:    big.NewInt(0),
	EIP155Block:    big.NewInt(0),
	EIP158Block:    big.NewInt(0),
	ByzantiumBlock: big.NewInt(0),
	MinDifficulty:  big.NewInt(131_072),
}

func gte(n, fork *big.Int) bool {
	if fork == nil || n == nil {
		return false
	}
	return n.Cmp(fork) >= 0
}

func (c *ChainConfig) IsHomestead(num *big.Int) bool { return gte(num, c.HomesteadBlock) }
func (c *ChainConfig) IsEIP150(num *big.Int) bool    { return gte(num, c.EIP150Block) }
func (c *ChainConfig) IsEIP155(num *big.Int) bool    { return gte(num, c.EIP155Block) }
func (c *ChainConfig) IsEIP158(num *big.Int) bool    { return gte(num, c.EIP158Block) }
func (c *ChainConfig) IsByzantium(num *big.Int) bool { return gte(num, c.ByzantiumBlock) }

// Rules is a frozen, block-number-specific snapshot of which forks are
// active, computed once per block rather than re-checked per opcode.
type Rules struct {
	ChainID                                     *big.Int
	IsHomestead, IsEIP150, IsEIP155, IsEIP158    bool
	IsByzantium                                  bool
}

// Rules returns the fork-activity snapshot for block number num.
func (c *ChainConfig) Rules(num *big.Int) Rules {
	return Rules{
		ChainID:     c.ChainID,
		IsHomestead: c.IsHomestead(num),
		IsEIP150:    c.IsEIP150(num),
		IsEIP155:    c.IsEIP155(num),
		IsEIP158:    c.IsEIP158(num),
		IsByzantium: c.IsByzantium(num),
	}
}

// GenesisAlloc is the initial account allocation keyed by address, decoded
// from a genesis JSON document (SPEC_FULL.md §A.3/§C.3).
type GenesisAlloc map[common.Address]GenesisAccount

// GenesisAccount is one genesis allocation entry.
type GenesisAccount struct {
	Code    []byte                      `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
	Balance *big.Int                    `json:"balance"`
	Nonce   uint64                      `json:"nonce,omitempty"`
}
