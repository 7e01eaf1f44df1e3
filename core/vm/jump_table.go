package vm

import "github.com/mana-ethereum/mana-sub005/params"

// operation describes one opcode's static/dynamic gas cost, stack
// requirements, and its execution function, spec.md §4.4's per-opcode
// "delta/alpha/gas" table entries made concrete.
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)
	minStack    int
	maxStack    int
	memorySize  func(stack *Stack) (uint64, bool)
	halts       bool // RETURN/STOP/REVERT/SELFDESTRUCT: stop the loop without advancing pc
	jumps       bool // JUMP/JUMPI: execute() already set pc
	writes      bool // rejected under STATICCALL's read-only mode
}

// JumpTable maps an opcode byte to its operation, nil for undefined
// opcodes.
type JumpTable [256]*operation

func minSwapStack(n int) int { return minStack(n, n) }
func minDupStack(n int) int  { return minStack(n, n) }
func minStack(pops, push int) int { return pops }
func maxStack(pops, push int) int { return 1024 + pops - push }

func newFrontierInstructionSet() *JumpTable {
	tbl := &JumpTable{}
	set := func(op OpCode, o *operation) { tbl[op] = o }

	set(STOP, &operation{execute: opStop, minStack: minStack(0, 0), maxStack: maxStack(0, 0), halts: true})
	set(ADD, &operation{execute: opAdd, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MUL, &operation{execute: opMul, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SUB, &operation{execute: opSub, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(DIV, &operation{execute: opDiv, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SDIV, &operation{execute: opSdiv, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MOD, &operation{execute: opMod, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SMOD, &operation{execute: opSmod, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ADDMOD, &operation{execute: opAddmod, constantGas: params.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(MULMOD, &operation{execute: opMulmod, constantGas: params.GasMidStep, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(EXP, &operation{execute: opExp, dynamicGas: gasExpFrontier, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SIGNEXTEND, &operation{execute: opSignExtend, constantGas: params.GasFastStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(LT, &operation{execute: opLt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(GT, &operation{execute: opGt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SLT, &operation{execute: opSlt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SGT, &operation{execute: opSgt, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(EQ, &operation{execute: opEq, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ISZERO, &operation{execute: opIszero, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(AND, &operation{execute: opAnd, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(OR, &operation{execute: opOr, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(XOR, &operation{execute: opXor, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(NOT, &operation{execute: opNot, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(BYTE, &operation{execute: opByte, constantGas: params.GasFastestStep, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SHA3, &operation{execute: opSha3, constantGas: params.Sha3Gas, dynamicGas: gasSha3, minStack: minStack(2, 1), maxStack: maxStack(2, 1), memorySize: memorySha3})
	set(ADDRESS, &operation{execute: opAddress, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(BALANCE, &operation{execute: opBalance, constantGas: params.BalanceGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(ORIGIN, &operation{execute: opOrigin, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLER, &operation{execute: opCaller, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLVALUE, &operation{execute: opCallValue, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATALOAD, &operation{execute: opCallDataLoad, constantGas: params.GasFastestStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(CALLDATASIZE, &operation{execute: opCallDataSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATACOPY, &operation{execute: opCallDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCopy})
	set(CODESIZE, &operation{execute: opCodeSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CODECOPY, &operation{execute: opCodeCopy, constantGas: params.GasFastestStep, dynamicGas: gasCodeCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCopy})
	set(GASPRICE, &operation{execute: opGasprice, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(EXTCODESIZE, &operation{execute: opExtCodeSize, constantGas: params.ExtcodeSizeGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(EXTCODECOPY, &operation{execute: opExtCodeCopy, constantGas: params.ExtcodeCopyBaseFrontier, dynamicGas: gasExtCodeCopy, minStack: minStack(4, 0), maxStack: maxStack(4, 0), memorySize: memoryExtCodeCopy})
	set(BLOCKHASH, &operation{execute: opBlockhash, constantGas: params.GasExtStep, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(COINBASE, &operation{execute: opCoinbase, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(TIMESTAMP, &operation{execute: opTimestamp, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(NUMBER, &operation{execute: opNumber, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(DIFFICULTY, &operation{execute: opDifficulty, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(GASLIMIT, &operation{execute: opGasLimit, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(POP, &operation{execute: opPop, constantGas: params.GasQuickStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0)})
	set(MLOAD, &operation{execute: opMload, constantGas: params.GasFastestStep, dynamicGas: gasMLoad, minStack: minStack(1, 1), maxStack: maxStack(1, 1), memorySize: memoryMLoad})
	set(MSTORE, &operation{execute: opMstore, constantGas: params.GasFastestStep, dynamicGas: gasMStore, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore})
	set(MSTORE8, &operation{execute: opMstore8, constantGas: params.GasFastestStep, dynamicGas: gasMStore8, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryMStore8})
	set(SLOAD, &operation{execute: opSload, constantGas: params.SloadGasFrontier, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(SSTORE, &operation{execute: opSstore, dynamicGas: gasSStoreFrontier, minStack: minStack(2, 0), maxStack: maxStack(2, 0), writes: true})
	set(JUMP, &operation{execute: opJump, constantGas: params.GasMidStep, minStack: minStack(1, 0), maxStack: maxStack(1, 0), jumps: true})
	set(JUMPI, &operation{execute: opJumpi, constantGas: params.GasSlowStep, minStack: minStack(2, 0), maxStack: maxStack(2, 0), jumps: true})
	set(PC, &operation{execute: opPc, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(MSIZE, &operation{execute: opMsize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(GAS, &operation{execute: opGas, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(JUMPDEST, &operation{execute: opJumpdest, constantGas: params.JumpdestGas, minStack: minStack(0, 0), maxStack: maxStack(0, 0)})
	set(CREATE, &operation{execute: opCreate, constantGas: params.CreateGas, dynamicGas: gasCreate, minStack: minStack(3, 1), maxStack: maxStack(3, 1), memorySize: memoryCreate, writes: true})
	set(CALL, &operation{execute: opCall, constantGas: params.CallGasFrontier, dynamicGas: gasCallFrontier, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall})
	set(CALLCODE, &operation{execute: opCallCode, constantGas: params.CallGasFrontier, dynamicGas: gasCallCodeFrontier, minStack: minStack(7, 1), maxStack: maxStack(7, 1), memorySize: memoryCall})
	set(RETURN, &operation{execute: opReturn, dynamicGas: gasReturn, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn, halts: true})
	set(SELFDESTRUCT, &operation{execute: opSuicide, constantGas: 0, dynamicGas: gasSelfdestructFrontier, minStack: minStack(1, 0), maxStack: maxStack(1, 0), halts: true, writes: true})

	for i := 0; i < 32; i++ {
		set(PUSH1+OpCode(i), &operation{execute: makePush(uint64(i+1)), constantGas: params.GasFastestStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	}
	for i := 0; i < 16; i++ {
		set(DUP1+OpCode(i), &operation{execute: makeDup(i+1), constantGas: params.GasFastestStep, minStack: minDupStack(i + 1), maxStack: maxStack(i+1, i+2)})
		set(SWAP1+OpCode(i), &operation{execute: makeSwap(i+1), constantGas: params.GasFastestStep, minStack: minSwapStack(i + 2), maxStack: maxStack(i+2, i+2)})
	}
	for i := 0; i < 5; i++ {
		set(LOG0+OpCode(i), &operation{execute: makeLog(i), dynamicGas: makeGasLog(i), minStack: minStack(2+i, 0), maxStack: maxStack(2+i, 0), memorySize: memoryLog, writes: true})
	}
	return tbl
}

func newHomesteadInstructionSet() *JumpTable {
	tbl := newFrontierInstructionSet()
	tbl[DELEGATECALL] = &operation{execute: opDelegateCall, constantGas: params.CallGasFrontier, dynamicGas: gasDelegateCallFrontier, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryDelegateCall}
	return tbl
}

func newTangerineWhistleInstructionSet() *JumpTable {
	tbl := newHomesteadInstructionSet()
	tbl[BALANCE].constantGas = params.BalanceGasEIP150
	tbl[EXTCODESIZE].constantGas = params.ExtcodeSizeGasEIP150
	tbl[EXTCODECOPY].constantGas = params.ExtcodeCopyBaseEIP150
	tbl[SLOAD].constantGas = params.SloadGasEIP150
	tbl[CALL].constantGas = params.CallGasEIP150
	tbl[CALLCODE].constantGas = params.CallGasEIP150
	tbl[DELEGATECALL].constantGas = params.CallGasEIP150
	tbl[SELFDESTRUCT].dynamicGas = gasSelfdestructEIP150
	tbl[CALL].dynamicGas = gasCallEIP150
	tbl[CALLCODE].dynamicGas = gasCallCodeEIP150
	tbl[DELEGATECALL].dynamicGas = gasDelegateCallEIP150
	return tbl
}

func newSpuriousDragonInstructionSet() *JumpTable {
	tbl := newTangerineWhistleInstructionSet()
	tbl[EXP].dynamicGas = gasExpEIP158
	return tbl
}

func newByzantiumInstructionSet() *JumpTable {
	tbl := newSpuriousDragonInstructionSet()
	tbl[STATICCALL] = &operation{execute: opStaticCall, constantGas: params.CallGasEIP150, dynamicGas: gasStaticCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), memorySize: memoryStaticCall}
	tbl[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: params.GasQuickStep, minStack: minStack(0, 1), maxStack: maxStack(0, 1)}
	tbl[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0), memorySize: memoryCopy}
	tbl[REVERT] = &operation{execute: opRevert, dynamicGas: gasReturn, minStack: minStack(2, 0), maxStack: maxStack(2, 0), memorySize: memoryReturn, halts: true}
	return tbl
}

var (
	frontierInstructionSet         = newFrontierInstructionSet()
	homesteadInstructionSet        = newHomesteadInstructionSet()
	tangerineWhistleInstructionSet = newTangerineWhistleInstructionSet()
	spuriousDragonInstructionSet   = newSpuriousDragonInstructionSet()
	byzantiumInstructionSet        = newByzantiumInstructionSet()
)
