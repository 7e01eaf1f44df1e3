// Package ethash implements consensus.Engine with the proof-of-work
// header validation and difficulty-adjustment rules of spec.md §4.8.
// It stops short of carrying the DAG/mix-digest proof-of-work puzzle
// itself (out of scope: spec.md's Non-goals exclude mining/PoW search),
// implementing only the deterministic parts a full node needs to
// validate headers it did not mine itself.
package ethash

import (
	"errors"
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common/math"
	"github.com/mana-ethereum/mana-sub005/consensus"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/log"
	"github.com/mana-ethereum/mana-sub005/params"
)

var (
	ErrInvalidExtraData  = errors.New("ethash: extra-data too long")
	ErrInvalidNumber     = errors.New("ethash: non-sequential block number")
	ErrInvalidTimestamp  = errors.New("ethash: timestamp not greater than parent")
	ErrInvalidGasLimit   = errors.New("ethash: gas limit out of bounds")
	ErrGasUsedTooHigh    = errors.New("ethash: gas used exceeds gas limit")
	ErrInvalidDifficulty = errors.New("ethash: invalid difficulty")
	ErrUnknownAncestor   = errors.New("ethash: unknown ancestor")

	big1       = big.NewInt(1)
	big2       = big.NewInt(2)
	big8       = big.NewInt(8)
	big10      = big.NewInt(10)
	big32      = big.NewInt(32)
	bigMinus99 = big.NewInt(-99)
)

// Ethash is a stateless consensus.Engine implementation — it carries no
// mutable fields, matching go-ethereum's real Ethash struct shape
// (which otherwise holds DAG caches this core has no use for).
type Ethash struct {
	log log.Logger
}

// New returns an Ethash engine logging via logger (or the package root
// logger when nil).
func New(logger log.Logger) *Ethash {
	if logger == nil {
		logger = log.Root()
	}
	return &Ethash{log: logger}
}

// VerifyHeader implements spec.md §4.8's full acceptance checklist.
func (e *Ethash) VerifyHeader(chain consensus.ChainHeaderReader, header, parent *types.Header) error {
	if uint64(len(header.Extra)) > params.MaximumExtraDataSize {
		return ErrInvalidExtraData
	}
	if parent == nil {
		if header.Number.Sign() != 0 {
			return ErrUnknownAncestor
		}
		return nil
	}
	if header.Time <= parent.Time {
		return ErrInvalidTimestamp
	}
	if header.Number.Cmp(new(big.Int).Add(parent.Number, big1)) != 0 {
		return ErrInvalidNumber
	}
	if err := verifyGasLimit(header, parent); err != nil {
		return err
	}
	if header.GasUsed > header.GasLimit {
		return ErrGasUsedTooHigh
	}
	expected := e.CalcDifficulty(chain, header.Time, parent)
	if header.Difficulty.Cmp(expected) != 0 {
		e.log.Warn("header difficulty mismatch", "have", header.Difficulty, "want", expected)
		return ErrInvalidDifficulty
	}
	return nil
}

func verifyGasLimit(header, parent *types.Header) error {
	diff := new(big.Int).Sub(big.NewInt(int64(parent.GasLimit)), big.NewInt(int64(header.GasLimit)))
	if diff.Sign() < 0 {
		diff.Neg(diff)
	}
	limit := parent.GasLimit / params.GasLimitBoundDivisor
	if diff.Uint64() >= limit {
		return ErrInvalidGasLimit
	}
	if header.GasLimit < params.MinGasLimit {
		return ErrInvalidGasLimit
	}
	return nil
}

// CalcDifficulty implements spec.md §4.8's difficulty recomputation:
// the Homestead ς2 = max(1 - ⌊(t-tp)/10⌋, -99) adjustment when
// Homestead is active, the pre-Homestead ς1 ∈ {+1,-1} rule otherwise,
// plus the exponential-bomb term, floored at MinimumDifficulty.
func (e *Ethash) CalcDifficulty(chain consensus.ChainHeaderReader, time uint64, parent *types.Header) *big.Int {
	config := chain.Config()
	next := new(big.Int).Add(parent.Number, big1)

	var adjust *big.Int
	if config.IsHomestead(next) {
		adjust = calcAdjustHomestead(time, parent)
	} else {
		adjust = calcAdjustFrontier(time, parent)
	}

	diff := new(big.Int).Div(parent.Difficulty, params.DifficultyBoundDivisor)
	diff.Mul(diff, adjust)
	diff.Add(diff, parent.Difficulty)

	if diff.Cmp(params.MinimumDifficulty) < 0 {
		diff.Set(params.MinimumDifficulty)
	}

	// exponential ice-age bomb: floor(2^(floor(number/100000)-2))
	periodCount := new(big.Int).Add(parent.Number, big1)
	periodCount.Div(periodCount, params.ExpDiffPeriod)
	if periodCount.Cmp(big1) > 0 {
		exp := new(big.Int).Sub(periodCount, big2)
		bomb := math.BigPow(2, exp.Int64())
		diff.Add(diff, bomb)
	}
	return diff
}

func calcAdjustFrontier(time uint64, parent *types.Header) *big.Int {
	if time-parent.Time < 13 {
		return big1
	}
	return big.NewInt(-1)
}

func calcAdjustHomestead(time uint64, parent *types.Header) *big.Int {
	x := new(big.Int).SetUint64(time - parent.Time)
	x.Div(x, big10)
	x.Sub(big1, x)
	if x.Cmp(bigMinus99) < 0 {
		x.Set(bigMinus99)
	}
	return x
}

// Finalize credits the block reward to the beneficiary and the
// depth-discounted ommer rewards per spec.md §4.6/§4.4 "Fork
// parameterization": pre-Byzantium 5 ETH, Byzantium+ 3 ETH, each ommer
// gets (8-depth)/8 of the base reward, and the canonical beneficiary
// gets an extra base/32 per ommer included.
func (e *Ethash) Finalize(chain consensus.ChainHeaderReader, header *types.Header, statedb *state.StateDB, uncles []*types.Header) {
	config := chain.Config()
	reward := new(big.Int).Set(params.FrontierBlockReward)
	if config.IsByzantium(header.Number) {
		reward = new(big.Int).Set(params.ByzantiumBlockReward)
	}

	for _, uncle := range uncles {
		depth := new(big.Int).Sub(header.Number, uncle.Number)

		ommerReward := new(big.Int).Sub(big8, depth)
		ommerReward.Mul(ommerReward, reward)
		ommerReward.Div(ommerReward, big8)
		statedb.AddBalance(uncle.Coinbase, ommerReward)

		nephewReward := new(big.Int).Div(reward, big32)
		statedb.AddBalance(header.Coinbase, nephewReward)
	}
	statedb.AddBalance(header.Coinbase, reward)
}
