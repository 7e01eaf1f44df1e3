package vm

import (
	"github.com/mana-ethereum/mana-sub005/params"
)

const (
	memoryGasDivisor = params.QuadCoeffDiv
)

// memoryGasCost returns the total gas cost of the memory region needed
// to be newSize bytes, the quadratic formula of spec.md §4.4 "Memory
// expansion": `3*words + words^2/512`.
func memoryGasCost(mem *Memory, newSize uint64) (uint64, error) {
	if newSize == 0 {
		return 0, nil
	}
	if newSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newSize)
	newMemSize := newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / memoryGasDivisor
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

// callGas returns the gas to forward to a CALL-family instruction,
// capped by the "63/64ths rule" (EIP-150, spec.md §4.4 "Call gas"):
// post-EIP150, a call may forward at most gas - gas/64. Before EIP-150,
// the full remaining gas may be requested.
func callGas(isEip150 bool, availableGas, base uint64, callCost uint64) uint64 {
	if isEip150 {
		availableGas = availableGas - base
		gas := availableGas - availableGas/64
		if gas < callCost {
			return gas
		}
	}
	return callCost
}
