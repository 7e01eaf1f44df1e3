package core

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/core/vm"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/trie"
)

func newTestEVM(t *testing.T, statedb *state.StateDB, config *params.ChainConfig) *vm.EVM {
	t.Helper()
	blockCtx := vm.BlockContext{
		Coinbase:    common.HexToAddress("0xc0ffee0000000000000000000000000000c0de"),
		GasLimit:    8_000_000,
		BlockNumber: big.NewInt(1),
		Time:        1000,
		Difficulty:  big.NewInt(1),
		GetHash:     func(n uint64) common.Hash { return common.Hash{} },
	}
	txCtx := vm.TxContext{GasPrice: big.NewInt(1)}
	return vm.NewEVM(blockCtx, txCtx, statedb, config)
}

func newTestStateDB(t *testing.T) *state.StateDB {
	t.Helper()
	db := trie.NewDatabase(memorydb.New())
	statedb, err := state.New(common.Hash{}, db)
	if err != nil {
		t.Fatalf("open statedb: %v", err)
	}
	return statedb
}

func TestIntrinsicGasSimpleTransfer(t *testing.T) {
	gas, err := intrinsicGas(nil, false, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gas != params.TxGas {
		t.Fatalf("got %d, want %d", gas, params.TxGas)
	}
}

func TestIntrinsicGasContractCreationHomestead(t *testing.T) {
	gas, err := intrinsicGas(nil, true, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gas != params.TxGasContractCreation {
		t.Fatalf("got %d, want %d", gas, params.TxGasContractCreation)
	}
}

func TestIntrinsicGasWithData(t *testing.T) {
	data := []byte{0x00, 0x01, 0x00, 0x02}
	gas, err := intrinsicGas(data, false, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := params.TxGas + 2*params.TxDataZeroGas + 2*params.TxDataNonZeroGas
	if gas != want {
		t.Fatalf("got %d, want %d", gas, want)
	}
}

func TestApplySimpleTransferCreditsRecipientAndCoinbase(t *testing.T) {
	statedb := newTestStateDB(t)
	config := params.AllProtocolChanges
	evm := newTestEVM(t, statedb, config)

	from := common.HexToAddress("0x00000000000000000000000000000000000a1a")
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")
	statedb.AddBalance(from, big.NewInt(1_000_000_000))

	msg := Message{
		From:       from,
		To:         &to,
		Nonce:      0,
		Value:      big.NewInt(1000),
		GasLimit:   100_000,
		GasPrice:   big.NewInt(1),
		CheckNonce: true,
	}

	result, err := NewStateTransition(evm, msg).Apply()
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Failed {
		t.Fatalf("transfer unexpectedly failed: %v", result.Err)
	}
	if got := statedb.GetBalance(to); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("recipient balance: got %s, want 1000", got)
	}
	if got := statedb.GetNonce(from); got != 1 {
		t.Fatalf("sender nonce: got %d, want 1", got)
	}
	if got := statedb.GetBalance(evm.Coinbase); got.Sign() <= 0 {
		t.Fatalf("coinbase should have been credited gas fees, got %s", got)
	}
}

func TestApplyRejectsInsufficientFunds(t *testing.T) {
	statedb := newTestStateDB(t)
	config := params.AllProtocolChanges
	evm := newTestEVM(t, statedb, config)

	from := common.HexToAddress("0x00000000000000000000000000000000000a1a")
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")

	msg := Message{
		From:       from,
		To:         &to,
		Value:      big.NewInt(1),
		GasLimit:   100_000,
		GasPrice:   big.NewInt(1),
		CheckNonce: true,
	}
	if _, err := NewStateTransition(evm, msg).Apply(); err != ErrInsufficientFunds {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestApplyRejectsBadNonce(t *testing.T) {
	statedb := newTestStateDB(t)
	config := params.AllProtocolChanges
	evm := newTestEVM(t, statedb, config)

	from := common.HexToAddress("0x00000000000000000000000000000000000a1a")
	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")
	statedb.AddBalance(from, big.NewInt(1_000_000_000))
	statedb.SetNonce(from, 5)

	msg := Message{
		From:       from,
		To:         &to,
		Nonce:      1,
		Value:      big.NewInt(1),
		GasLimit:   100_000,
		GasPrice:   big.NewInt(1),
		CheckNonce: true,
	}
	if _, err := NewStateTransition(evm, msg).Apply(); err == nil {
		t.Fatalf("expected a nonce error")
	}
}

func TestTransactionToMessageRecoversSender(t *testing.T) {
	key, err := crypto.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	to := common.HexToAddress("0x00000000000000000000000000000000000b2b")
	tx := types.NewTransaction(0, to, big.NewInt(100), 21000, big.NewInt(1), nil)

	chainID := big.NewInt(0)
	h := tx.SigningHash(chainID)
	sig, err := crypto.Sign(h.Bytes(), key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	signed := tx.WithSignature(sig[64], new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64]), chainID)

	msg, err := TransactionToMessage(signed, chainID)
	if err != nil {
		t.Fatalf("TransactionToMessage: %v", err)
	}
	if msg.From != from {
		t.Fatalf("got sender %s, want %s", msg.From, from)
	}
}
