// Package consensus defines the seam between block validation and a
// specific proof mechanism (spec.md §4.8, SPEC_FULL.md §C.5): only
// consensus/ethash implements it here, but the interface is factored
// out the way go-ethereum does so alternate engines (clique, beacon)
// could be substituted without touching the block processor.
package consensus

import (
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/params"
)

// ChainHeaderReader is the subset of chain access header validation
// needs: looking up an ancestor by number/hash to check continuity.
type ChainHeaderReader interface {
	Config() *params.ChainConfig
	GetHeader(hash common.Hash, number uint64) *types.Header
	GetHeaderByNumber(number uint64) *types.Header
}

// Engine validates headers, computes difficulty, and credits block
// rewards, the three consensus-specific operations spec.md §4.6/§4.8
// factor out of the otherwise consensus-agnostic block processor.
type Engine interface {
	// VerifyHeader checks header against chain and parent per spec.md
	// §4.8's full rule list.
	VerifyHeader(chain ChainHeaderReader, header *types.Header, parent *types.Header) error

	// CalcDifficulty returns the difficulty a new block at time with
	// parent should have (spec.md §4.8's ς1/ς2 plus bomb formula).
	CalcDifficulty(chain ChainHeaderReader, time uint64, parent *types.Header) *big.Int

	// Finalize credits the block and ommer rewards into statedb
	// (spec.md §4.6's reward step) but does not compute the resulting
	// state root — the block processor does that once afterward.
	Finalize(chain ChainHeaderReader, header *types.Header, statedb *state.StateDB, uncles []*types.Header)
}
