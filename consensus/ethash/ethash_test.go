package ethash

import (
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/trie"
)

// fakeChainReader is a minimal consensus.ChainHeaderReader backed by an
// in-memory map, enough to drive VerifyHeader/CalcDifficulty tests
// without a real block tree.
type fakeChainReader struct {
	config  *params.ChainConfig
	headers map[uint64]*types.Header
}

func (f *fakeChainReader) Config() *params.ChainConfig { return f.config }
func (f *fakeChainReader) GetHeader(hash common.Hash, number uint64) *types.Header {
	return f.headers[number]
}
func (f *fakeChainReader) GetHeaderByNumber(number uint64) *types.Header {
	return f.headers[number]
}

func frontierConfig() *params.ChainConfig {
	cfg := *params.MainnetChainConfig
	cfg.HomesteadBlock = big.NewInt(1_000_000)
	return &cfg
}

func TestCalcDifficultyFrontierFastBlock(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(100),
		Time:       1000,
		Difficulty: big.NewInt(1_000_000),
	}
	e := New(nil)
	got := e.CalcDifficulty(chain, 1005, parent) // < 13s gap, frontier ς1 = +1
	want := new(big.Int).Add(parent.Difficulty, new(big.Int).Div(parent.Difficulty, params.DifficultyBoundDivisor))
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCalcDifficultyFrontierSlowBlock(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(100),
		Time:       1000,
		Difficulty: big.NewInt(1_000_000),
	}
	e := New(nil)
	got := e.CalcDifficulty(chain, 1020, parent) // >= 13s gap, frontier ς1 = -1
	want := new(big.Int).Sub(parent.Difficulty, new(big.Int).Div(parent.Difficulty, params.DifficultyBoundDivisor))
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCalcDifficultyHomesteadAdjustment(t *testing.T) {
	cfg := params.AllProtocolChanges
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(1),
		Time:       1000,
		Difficulty: big.NewInt(2_000_000),
	}
	e := New(nil)
	got := e.CalcDifficulty(chain, 1005, parent) // gap 5s -> x = 1 - 5/10 = 1
	adjust := new(big.Int).Div(parent.Difficulty, params.DifficultyBoundDivisor)
	want := new(big.Int).Add(parent.Difficulty, adjust)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCalcDifficultyFloorsAtMinimum(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(100),
		Time:       1000,
		Difficulty: new(big.Int).Set(params.MinimumDifficulty),
	}
	e := New(nil)
	got := e.CalcDifficulty(chain, 1020, parent)
	if got.Cmp(params.MinimumDifficulty) < 0 {
		t.Fatalf("difficulty dropped below floor: %s", got)
	}
}

func TestVerifyHeaderRejectsBadGasLimitJump(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(1),
		Time:       1000,
		GasLimit:   5_000_000,
		Difficulty: big.NewInt(1_000_000),
	}
	e := New(nil)
	header := &types.Header{
		Number:     big.NewInt(2),
		Time:       1013,
		GasLimit:   parent.GasLimit * 2, // way outside the 1/1024 bound
		Difficulty: e.CalcDifficulty(chain, 1013, parent),
	}
	if err := e.VerifyHeader(chain, header, parent); err != ErrInvalidGasLimit {
		t.Fatalf("got %v, want ErrInvalidGasLimit", err)
	}
}

func TestVerifyHeaderRejectsStaleTimestamp(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	parent := &types.Header{
		Number:     big.NewInt(1),
		Time:       1000,
		GasLimit:   5_000_000,
		Difficulty: big.NewInt(1_000_000),
	}
	header := &types.Header{
		Number:   big.NewInt(2),
		Time:     1000,
		GasLimit: parent.GasLimit,
	}
	e := New(nil)
	if err := e.VerifyHeader(chain, header, parent); err != ErrInvalidTimestamp {
		t.Fatalf("got %v, want ErrInvalidTimestamp", err)
	}
}

func TestVerifyHeaderAcceptsGenesisParent(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}
	header := &types.Header{Number: big.NewInt(0), Extra: []byte("genesis")}
	e := New(nil)
	if err := e.VerifyHeader(chain, header, nil); err != nil {
		t.Fatalf("unexpected error for genesis header: %v", err)
	}
}

func TestFinalizeCreditsBlockAndOmmerRewards(t *testing.T) {
	cfg := frontierConfig()
	chain := &fakeChainReader{config: cfg}

	db := trie.NewDatabase(memorydb.New())
	statedb, err := state.New(common.Hash{}, db)
	if err != nil {
		t.Fatalf("open statedb: %v", err)
	}

	beneficiary := common.HexToAddress("0xb000000000000000000000000000000000000b")
	ommerCoinbase := common.HexToAddress("0x000000000000000000000000000000000000aa")

	header := &types.Header{Number: big.NewInt(3), Coinbase: beneficiary}
	uncle := &types.Header{Number: big.NewInt(2), Coinbase: ommerCoinbase}

	e := New(nil)
	e.Finalize(chain, header, statedb, []*types.Header{uncle})

	wantOmmer := new(big.Int).Mul(big.NewInt(7), params.FrontierBlockReward)
	wantOmmer.Div(wantOmmer, big.NewInt(8))
	if got := statedb.GetBalance(ommerCoinbase); got.Cmp(wantOmmer) != 0 {
		t.Fatalf("ommer reward: got %s, want %s", got, wantOmmer)
	}

	wantBeneficiary := new(big.Int).Add(params.FrontierBlockReward, new(big.Int).Div(params.FrontierBlockReward, big.NewInt(32)))
	if got := statedb.GetBalance(beneficiary); got.Cmp(wantBeneficiary) != 0 {
		t.Fatalf("beneficiary reward: got %s, want %s", got, wantBeneficiary)
	}
}
