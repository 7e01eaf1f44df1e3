package vm

import "fmt"

// ScopeContext bundles the per-call-frame state an instruction needs:
// its stack, memory, and the Contract it is executing against.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

type executionFunc func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error)

// EVMInterpreter runs a single call frame's bytecode: the fetch-decode-
// execute loop of spec.md §4.4 "Execution model", charging static then
// dynamic gas for each instruction before dispatching it.
type EVMInterpreter struct {
	evm *EVM
	jt  *JumpTable

	// returnData holds the last sub-call's return bytes, read by
	// RETURNDATASIZE/RETURNDATACOPY (Byzantium, EIP-211).
	returnData []byte
}

// NewEVMInterpreter selects the jump table matching evm.chainRules and
// returns an interpreter bound to evm.
func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	var jt *JumpTable
	switch {
	case evm.chainRules.IsByzantium:
		jt = byzantiumInstructionSet
	case evm.chainRules.IsEIP158:
		jt = spuriousDragonInstructionSet
	case evm.chainRules.IsEIP150:
		jt = tangerineWhistleInstructionSet
	case evm.chainRules.IsHomestead:
		jt = homesteadInstructionSet
	default:
		jt = frontierInstructionSet
	}
	return &EVMInterpreter{evm: evm, jt: jt}
}

// Run executes contract's code starting at PC 0 with input as calldata,
// returning the RETURN/STOP data or propagating the halting error
// (spec.md §4.4's "exceptional halt" vs "normal halt" distinction:
// ErrExecutionReverted is the only error whose state changes the caller
// must still see refunded gas for).
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	in.evm.depth++
	defer func() { in.evm.depth-- }()

	contract.Input = input
	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op    OpCode
		mem   = NewMemory()
		stack = newstack()
		scope = &ScopeContext{Memory: mem, Stack: stack, Contract: contract}
		pc    = uint64(0)
	)

	for {
		op = contract.GetOp(pc)
		operation := in.jt[op]
		if operation == nil {
			return nil, fmt.Errorf("vm: invalid opcode 0x%x", byte(op))
		}
		if err := stack.require(operation.minStack); err != nil {
			return nil, err
		}
		if stack.len() > operation.maxStack {
			return nil, errStackOverflow
		}
		if readOnly && operation.writes {
			return nil, ErrWriteProtection
		}

		if !contract.UseGas(operation.constantGas) {
			return nil, ErrOutOfGas
		}
		if operation.dynamicGas != nil {
			var memorySize uint64
			if operation.memorySize != nil {
				memSize, overflow := operation.memorySize(stack)
				if overflow {
					return nil, ErrGasUintOverflow
				}
				if memorySize, overflow = toSizeChecked(memSize); overflow {
					return nil, ErrGasUintOverflow
				}
			}
			dynamicCost, err := operation.dynamicGas(in.evm, contract, stack, mem, memorySize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(dynamicCost) {
				return nil, ErrOutOfGas
			}
			if memorySize > 0 {
				mem.Resize(memorySize)
			}
		}

		res, err := operation.execute(&pc, in, scope)
		if err != nil {
			return res, err
		}
		if operation.halts {
			return res, nil
		}
		if !operation.jumps {
			pc++
		}
	}
}

func toSizeChecked(size uint64) (uint64, bool) {
	if size > 0x1FFFFFFFE0 {
		return 0, true
	}
	return toWordSize(size) * 32, false
}
