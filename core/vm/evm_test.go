package vm

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/trie"
)

func newTestEVM(t *testing.T, config *params.ChainConfig) (*EVM, *state.StateDB) {
	t.Helper()
	statedb, err := state.New(common.Hash{}, trie.NewDatabase(memorydb.New()))
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	blockCtx := BlockContext{
		BlockNumber: big.NewInt(1),
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
	}
	txCtx := TxContext{GasPrice: big.NewInt(0)}
	return NewEVM(blockCtx, txCtx, statedb, config), statedb
}

// frontierConfig never activates Homestead, for pre-Homestead CREATE
// behavior tests.
var frontierConfig = &params.ChainConfig{
	ChainID:        big.NewInt(1337),
	HomesteadBlock: big.NewInt(1_000_000),
	EIP150Block:    big.NewInt(1_000_000),
	EIP155Block:    big.NewInt(1_000_000),
	EIP158Block:    big.NewInt(1_000_000),
	ByzantiumBlock: big.NewInt(1_000_000),
	MinDifficulty:  big.NewInt(131_072),
}

// TestArithmeticBytecodeReturnsSum drives PUSH1 3, PUSH1 5, ADD, PUSH1 0,
// MSTORE, PUSH1 32, PUSH1 0, RETURN with gas=27: the result is the
// 32-byte big-endian value 8, with 3 gas left over.
func TestArithmeticBytecodeReturnsSum(t *testing.T) {
	evm, statedb := newTestEVM(t, params.AllProtocolChanges)

	code := []byte{
		byte(PUSH1), 0x03,
		byte(PUSH1), 0x05,
		byte(ADD),
		byte(PUSH1), 0x00,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0x00,
		byte(RETURN),
	}
	addr := common.HexToAddress("0xaa")
	statedb.CreateAccount(addr)
	statedb.SetCode(addr, code)

	caller := AccountRef(common.HexToAddress("0x01"))
	ret, leftOverGas, err := evm.Call(caller, addr, nil, 27, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	want := make([]byte, 32)
	want[31] = 8
	if !bytes.Equal(ret, want) {
		t.Errorf("return = %x, want %x", ret, want)
	}
	if leftOverGas != 3 {
		t.Errorf("gas remaining = %d, want 3", leftOverGas)
	}
}

// TestStorageWriteSetsSlot drives PUSH1 1, PUSH1 1, ADD, PUSH1 1, SSTORE:
// account storage slot 1 becomes 2.
func TestStorageWriteSetsSlot(t *testing.T) {
	evm, statedb := newTestEVM(t, params.AllProtocolChanges)

	code := []byte{
		byte(PUSH1), 0x01,
		byte(PUSH1), 0x01,
		byte(ADD),
		byte(PUSH1), 0x01,
		byte(SSTORE),
	}
	addr := common.HexToAddress("0xbb")
	statedb.CreateAccount(addr)
	statedb.SetCode(addr, code)

	caller := AccountRef(common.HexToAddress("0x01"))
	if _, _, err := evm.Call(caller, addr, nil, 30000, uint256.NewInt(0)); err != nil {
		t.Fatalf("Call: %v", err)
	}

	slot := common.BytesToHash([]byte{0x01})
	got := statedb.GetState(addr, slot)
	want := common.BytesToHash([]byte{0x02})
	if got != want {
		t.Errorf("storage[1] = %x, want %x", got, want)
	}
}

// codeStoreOutOfGasInit returns from init with enough bytes that storing
// them (at params.CreateDataGas per byte) costs more than the gas handed
// to Create, triggering ErrCodeStoreOutOfGas.
func codeStoreOutOfGasInit() []byte {
	// PUSH1 <n> PUSH1 0 RETURN: returns n zero bytes as the deployed code.
	return []byte{
		byte(PUSH1), 64,
		byte(PUSH1), 0x00,
		byte(RETURN),
	}
}

func TestCreateOutOfGasStoringCodeFatalPostHomestead(t *testing.T) {
	evm, _ := newTestEVM(t, params.AllProtocolChanges)
	caller := AccountRef(common.HexToAddress("0x01"))

	// Enough gas to run the init code and reach RETURN, not enough to
	// additionally pay CreateDataGas (200/byte) for all 64 returned bytes.
	_, _, _, err := evm.Create(caller, codeStoreOutOfGasInit(), 1000, uint256.NewInt(0))
	if err != ErrCodeStoreOutOfGas {
		t.Fatalf("err = %v, want ErrCodeStoreOutOfGas", err)
	}
}

func TestCreateOutOfGasStoringCodeSurvivesPreHomestead(t *testing.T) {
	evm, statedb := newTestEVM(t, frontierConfig)
	caller := AccountRef(common.HexToAddress("0x01"))

	_, contractAddr, _, err := evm.Create(caller, codeStoreOutOfGasInit(), 1000, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("pre-Homestead CREATE returned an error: %v", err)
	}
	if statedb.GetCodeHash(contractAddr) != types.EmptyCodeHash {
		t.Errorf("expected no code stored at %x, got code hash %x", contractAddr, statedb.GetCodeHash(contractAddr))
	}
	if !statedb.Exist(contractAddr) {
		t.Errorf("expected the account at %x to still exist", contractAddr)
	}
}
