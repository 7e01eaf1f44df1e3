package vm

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

// BlockContext carries block-level data the EVM needs but that never
// changes across the calls within one block (spec.md §4.4 "environment
// information" that is block- rather than call-scoped).
type BlockContext struct {
	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *big.Int
	Time        uint64
	Difficulty  *big.Int
	GetHash     func(n uint64) common.Hash
}

// TxContext carries the data that is fixed for the lifetime of one
// transaction: its sender and gas price, read by ORIGIN/GASPRICE.
type TxContext struct {
	Origin   common.Address
	GasPrice *big.Int
}

// EVM is the execution environment for one transaction: it binds a
// StateDB, the active chain rules, and the call stack depth counter
// together, and dispatches CALL/CREATE family opcodes by recursing back
// into itself (spec.md §4.4 "message call" / "contract creation").
type EVM struct {
	BlockContext
	TxContext

	StateDB     *state.StateDB
	chainConfig *params.ChainConfig
	chainRules  params.Rules

	depth int

	interpreter *EVMInterpreter

	// abort is a stop flag for nested execution; no code in this package
	// sets or reads it.
	abort bool
}

// NewEVM returns an EVM ready to execute transactions against statedb at
// the given block/tx context, with fork behavior selected by chainConfig
// as of blockCtx.BlockNumber.
func NewEVM(blockCtx BlockContext, txCtx TxContext, statedb *state.StateDB, chainConfig *params.ChainConfig) *EVM {
	evm := &EVM{
		BlockContext: blockCtx,
		TxContext:    txCtx,
		StateDB:      statedb,
		chainConfig:  chainConfig,
		chainRules:   chainConfig.Rules(blockCtx.BlockNumber),
	}
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

func (evm *EVM) ChainConfig() *params.ChainConfig { return evm.chainConfig }

// Call executes the contract at addr with input, transferring value from
// caller first. It is the entry point for CALL and top-level message
// calls (spec.md §4.5 "apply_message").
func (evm *EVM) Call(caller ContractRef, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	if !value.IsZero() {
		bal := evm.StateDB.GetBalance(caller.Address())
		if bal.Cmp(value.ToBig()) < 0 {
			return nil, gas, ErrInsufficientBalance
		}
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(addr) {
		evm.StateDB.CreateAccount(addr)
	}
	evm.transfer(caller.Address(), addr, value)

	if p, isPrecompile := ActivePrecompiles(evm.chainRules)[addr]; isPrecompile {
		return RunPrecompiledContract(p, input, gas)
	}

	code := evm.StateDB.GetCode(addr)
	if len(code) == 0 {
		return nil, gas, nil
	}

	contract := NewContract(caller, AccountRef(addr), value, gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), code)

	ret, err = evm.interpreter.Run(contract, input, false)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// CallCode is like Call but executes addr's code in the caller's own
// storage context, only CALLER stays the immediate caller's address.
func (evm *EVM) CallCode(caller ContractRef, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	if !value.IsZero() {
		bal := evm.StateDB.GetBalance(caller.Address())
		if bal.Cmp(value.ToBig()) < 0 {
			return nil, gas, ErrInsufficientBalance
		}
	}

	snapshot := evm.StateDB.Snapshot()
	if p, isPrecompile := ActivePrecompiles(evm.chainRules)[addr]; isPrecompile {
		return RunPrecompiledContract(p, input, gas)
	}
	code := evm.StateDB.GetCode(addr)
	contract := NewContract(caller, AccountRef(caller.Address()), value, gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), code)

	ret, err = evm.interpreter.Run(contract, input, false)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// DelegateCall executes addr's code with the calling frame's caller,
// address and value all preserved (EIP-7 DELEGATECALL).
func (evm *EVM) DelegateCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()
	if p, isPrecompile := ActivePrecompiles(evm.chainRules)[addr]; isPrecompile {
		return RunPrecompiledContract(p, input, gas)
	}
	code := evm.StateDB.GetCode(addr)

	parent, ok := caller.(*Contract)
	var contract *Contract
	if ok {
		contract = NewContract(parent.caller, AccountRef(parent.Address()), parent.value, gas).AsDelegate()
	} else {
		contract = NewContract(caller, AccountRef(caller.Address()), new(uint256.Int), gas).AsDelegate()
	}
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), code)

	ret, err = evm.interpreter.Run(contract, input, false)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// StaticCall executes addr's code in read-only mode (Byzantium EIP-214):
// any opcode that would write state aborts with ErrWriteProtection.
func (evm *EVM) StaticCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.depth > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	snapshot := evm.StateDB.Snapshot()
	if p, isPrecompile := ActivePrecompiles(evm.chainRules)[addr]; isPrecompile {
		return RunPrecompiledContract(p, input, gas)
	}
	code := evm.StateDB.GetCode(addr)

	contract := NewContract(caller, AccountRef(addr), new(uint256.Int), gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), code)

	ret, err = evm.interpreter.Run(contract, input, true)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.Gas = 0
		}
	}
	return ret, contract.Gas, err
}

// create is the shared implementation behind CREATE and CREATE2.
func (evm *EVM) create(caller ContractRef, code []byte, gas uint64, value *uint256.Int, address common.Address) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	contractAddr = address
	if evm.depth > params.CallCreateDepth {
		return nil, contractAddr, gas, ErrDepth
	}
	if !value.IsZero() {
		bal := evm.StateDB.GetBalance(caller.Address())
		if bal.Cmp(value.ToBig()) < 0 {
			return nil, contractAddr, gas, ErrInsufficientBalance
		}
	}
	nonce := evm.StateDB.GetNonce(caller.Address())
	evm.StateDB.SetNonce(caller.Address(), nonce+1)

	if evm.StateDB.GetCodeHash(contractAddr) != (common.Hash{}) || evm.StateDB.GetNonce(contractAddr) != 0 {
		return nil, contractAddr, 0, ErrContractAddressCollision
	}
	snapshot := evm.StateDB.Snapshot()
	evm.StateDB.CreateAccount(contractAddr)
	if evm.chainRules.IsEIP158 {
		evm.StateDB.SetNonce(contractAddr, 1)
	}
	evm.transfer(caller.Address(), contractAddr, value)

	contract := NewContract(caller, AccountRef(contractAddr), value, gas)
	contract.SetCallCode(&contractAddr, crypto.Keccak256Hash(code), code)

	ret, err = evm.interpreter.Run(contract, nil, false)

	maxCodeSizeExceeded := evm.chainRules.IsEIP158 && len(ret) > params.MaxCodeSize
	if err == nil && !maxCodeSizeExceeded {
		createDataGas := uint64(len(ret)) * params.CreateDataGas
		if contract.UseGas(createDataGas) {
			evm.StateDB.SetCode(contractAddr, ret)
		} else {
			err = ErrCodeStoreOutOfGas
		}
	}
	if maxCodeSizeExceeded && err == nil {
		err = ErrMaxCodeSizeExceeded
	}
	// Pre-Homestead, running out of gas while storing the deployed code
	// is not fatal to the creation: the call returns successfully and
	// leaves the account as-is, minus the code (spec.md §4.4). Only
	// Homestead onward treats it like any other execution failure.
	if err == ErrCodeStoreOutOfGas && !evm.chainRules.IsHomestead {
		err = nil
	} else if err != nil && (err == ErrExecutionReverted || maxCodeSizeExceeded) {
		evm.StateDB.RevertToSnapshot(snapshot)
	} else if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		contract.Gas = 0
	}
	return ret, contractAddr, contract.Gas, err
}

// Create deploys init as a new contract owned by caller, at the
// nonce-derived address (spec.md §4.4 "CREATE").
func (evm *EVM) Create(caller ContractRef, code []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	nonce := evm.StateDB.GetNonce(caller.Address())
	contractAddr = crypto.CreateAddress(caller.Address(), nonce)
	return evm.create(caller, code, gas, value, contractAddr)
}

// Create2 deploys init at a salt-derived address (EIP-1014, wired here
// for forward compatibility though it first activates at Constantinople).
func (evm *EVM) Create2(caller ContractRef, code []byte, gas uint64, value *uint256.Int, salt *uint256.Int) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	codeHash := crypto.Keccak256(code)
	contractAddr = crypto.CreateAddress2(caller.Address(), salt.Bytes32(), codeHash)
	return evm.create(caller, code, gas, value, contractAddr)
}

func (evm *EVM) transfer(from, to common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	big := amount.ToBig()
	evm.StateDB.SubBalance(from, big)
	evm.StateDB.AddBalance(to, big)
}
