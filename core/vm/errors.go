package vm

import "errors"

// Execution errors, both "exceptional halts" (spec.md §4.4: consume all
// remaining gas, unwind the call) and the EIP-140 "normal but unsuccessful"
// REVERT halt (refunds unused gas, discards state changes).
var (
	ErrOutOfGas                 = errors.New("vm: out of gas")
	ErrCodeStoreOutOfGas        = errors.New("vm: contract creation code storage out of gas")
	ErrDepth                    = errors.New("vm: max call depth exceeded")
	ErrInsufficientBalance      = errors.New("vm: insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("vm: contract address collision")
	ErrExecutionReverted        = errors.New("vm: execution reverted")
	ErrMaxCodeSizeExceeded      = errors.New("vm: max code size exceeded")
	ErrInvalidJump              = errors.New("vm: invalid jump destination")
	ErrWriteProtection          = errors.New("vm: write protection")
	ErrReturnDataOutOfBounds    = errors.New("vm: return data out of bounds")
	ErrGasUintOverflow          = errors.New("vm: gas uint64 overflow")
	ErrInvalidCode              = errors.New("vm: invalid code: must not begin with 0xef")

	errStackUnderflow  = errors.New("vm: stack underflow")
	errStackOverflow   = errors.New("vm: stack overflow")
	errBadPairingInput = errors.New("vm: bad elliptic curve pairing input")
)
