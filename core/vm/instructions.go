package vm

import (
	"github.com/holiman/uint256"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

// --- arithmetic / comparison / bitwise -----------------------------------

func opAdd(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}
func opMul(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Mul(&x, y)
	return nil, nil
}
func opSub(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Sub(&x, y)
	return nil, nil
}
func opDiv(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Div(&x, y)
	return nil, nil
}
func opSdiv(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}
func opMod(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Mod(&x, y)
	return nil, nil
}
func opSmod(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.SMod(&x, y)
	return nil, nil
}
func opAddmod(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y, z := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}
func opMulmod(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y, z := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}
func opExp(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	base, exponent := sc.Stack.pop(), sc.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}
func opSignExtend(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	back, num := sc.Stack.pop(), sc.Stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}
func opLt(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}
func opGt(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}
func opSlt(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}
func opSgt(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}
func opEq(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}
func opIszero(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x := sc.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}
func opAnd(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.And(&x, y)
	return nil, nil
}
func opOr(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Or(&x, y)
	return nil, nil
}
func opXor(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x, y := sc.Stack.pop(), sc.Stack.peek()
	y.Xor(&x, y)
	return nil, nil
}
func opNot(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x := sc.Stack.peek()
	x.Not(x)
	return nil, nil
}
func opByte(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	th, val := sc.Stack.pop(), sc.Stack.peek()
	val.Byte(&th)
	return nil, nil
}
func opSha3(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	offset, size := sc.Stack.pop(), sc.Stack.peek()
	data := sc.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}

// --- environment / block info ---------------------------------------------

func opAddress(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetBytes(sc.Contract.Address().Bytes()))
	return nil, nil
}
func opBalance(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	slot := sc.Stack.peek()
	addr := common.Address(slot.Bytes20())
	slot.SetFromBig(in.evm.StateDB.GetBalance(addr))
	return nil, nil
}
func opOrigin(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetBytes(in.evm.Origin.Bytes()))
	return nil, nil
}
func opCaller(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetBytes(sc.Contract.Caller().Bytes()))
	return nil, nil
}
func opCallValue(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).Set(sc.Contract.Value()))
	return nil, nil
}
func opCallDataLoad(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	x := sc.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		x.SetBytes(getData(sc.Contract.Input, offset, 32))
	} else {
		x.Clear()
	}
	return nil, nil
}
func opCallDataSize(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(uint64(len(sc.Contract.Input))))
	return nil, nil
}
func opCallDataCopy(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	sc.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(sc.Contract.Input, dataOffset64, length.Uint64()))
	return nil, nil
}
func opCodeSize(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(uint64(len(sc.Contract.Code))))
	return nil, nil
}
func opCodeCopy(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	memOffset, codeOffset, length := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	sc.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(sc.Contract.Code, codeOffset64, length.Uint64()))
	return nil, nil
}
func opGasprice(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetFromBig(in.evm.GasPrice))
	return nil, nil
}
func opExtCodeSize(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	slot := sc.Stack.peek()
	slot.SetUint64(uint64(in.evm.StateDB.GetCodeSize(common.Address(slot.Bytes20()))))
	return nil, nil
}
func opExtCodeCopy(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	addr := common.Address(sc.Stack.pop().Bytes20())
	memOffset, codeOffset, length := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	code := in.evm.StateDB.GetCode(addr)
	sc.Memory.Set(memOffset.Uint64(), length.Uint64(), getData(code, codeOffset64, length.Uint64()))
	return nil, nil
}
func opReturnDataSize(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(uint64(len(in.returnData))))
	return nil, nil
}
func opReturnDataCopy(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOutOfBounds
	}
	end := new(uint256.Int).Add(&dataOffset, &length)
	if !end.IsUint64() || uint64(len(in.returnData)) < end.Uint64() {
		return nil, ErrReturnDataOutOfBounds
	}
	sc.Memory.Set(memOffset.Uint64(), length.Uint64(), in.returnData[offset64:offset64+length.Uint64()])
	return nil, nil
}
func opBlockhash(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	num := sc.Stack.peek()
	if !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	n := num.Uint64()
	cur := in.evm.BlockNumber.Uint64()
	if n >= cur || cur-n > 256 || in.evm.GetHash == nil {
		num.Clear()
		return nil, nil
	}
	num.SetBytes(in.evm.GetHash(n).Bytes())
	return nil, nil
}
func opCoinbase(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetBytes(in.evm.Coinbase.Bytes()))
	return nil, nil
}
func opTimestamp(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(in.evm.Time))
	return nil, nil
}
func opNumber(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetFromBig(in.evm.BlockNumber))
	return nil, nil
}
func opDifficulty(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetFromBig(in.evm.Difficulty))
	return nil, nil
}
func opGasLimit(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(in.evm.GasLimit))
	return nil, nil
}

// --- stack / memory / storage / control flow ------------------------------

func opPop(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.pop()
	return nil, nil
}
func opMload(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	v := sc.Stack.peek()
	offset := v.Uint64()
	v.SetBytes(sc.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}
func opMstore(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	mStart, val := sc.Stack.pop(), sc.Stack.pop()
	sc.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}
func opMstore8(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	off, val := sc.Stack.pop(), sc.Stack.pop()
	sc.Memory.store[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}
func opSload(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	loc := sc.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	val := in.evm.StateDB.GetState(sc.Contract.Address(), hash)
	loc.SetBytes(val.Bytes())
	return nil, nil
}
func opSstore(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	loc, val := sc.Stack.pop(), sc.Stack.pop()
	in.evm.StateDB.SetState(sc.Contract.Address(), common.Hash(loc.Bytes32()), common.Hash(val.Bytes32()))
	return nil, nil
}
func opJump(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	dest := sc.Stack.pop()
	if !sc.Contract.validJumpdest(&dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}
func opJumpi(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	dest, cond := sc.Stack.pop(), sc.Stack.pop()
	if !cond.IsZero() {
		if !sc.Contract.validJumpdest(&dest) {
			return nil, ErrInvalidJump
		}
		*pc = dest.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}
func opPc(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}
func opMsize(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(uint64(sc.Memory.Len())))
	return nil, nil
}
func opGas(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	sc.Stack.push(new(uint256.Int).SetUint64(sc.Contract.Gas))
	return nil, nil
}
func opJumpdest(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	return nil, nil
}
func opStop(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	return nil, nil
}
func opInvalid(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	return nil, ErrInvalidCode
}
func opReturn(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	offset, size := sc.Stack.pop(), sc.Stack.pop()
	return sc.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64())), nil
}
func opRevert(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	offset, size := sc.Stack.pop(), sc.Stack.pop()
	ret := sc.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, ErrExecutionReverted
}
func opSuicide(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	beneficiary := sc.Stack.pop()
	balance := in.evm.StateDB.GetBalance(sc.Contract.Address())
	in.evm.StateDB.AddBalance(common.Address(beneficiary.Bytes20()), balance)
	in.evm.StateDB.Suicide(sc.Contract.Address())
	return nil, nil
}

// --- PUSH / DUP / SWAP / LOG generators ------------------------------------

func makePush(size uint64) executionFunc {
	return func(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
		codeLen := uint64(len(sc.Contract.Code))
		start := *pc + 1
		if start > codeLen {
			start = codeLen
		}
		end := start + size
		if end > codeLen {
			end = codeLen
		}
		var b [32]byte
		copy(b[32-size:], sc.Contract.Code[start:end])
		sc.Stack.push(new(uint256.Int).SetBytes(b[:]))
		*pc += size
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
		sc.Stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	n++
	return func(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
		sc.Stack.swap(n)
		return nil, nil
	}
}

func makeLog(size int) executionFunc {
	return func(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
		topics := make([]common.Hash, size)
		mStart, mSize := sc.Stack.pop(), sc.Stack.pop()
		for i := 0; i < size; i++ {
			addr := sc.Stack.pop()
			topics[i] = common.Hash(addr.Bytes32())
		}
		d := sc.Memory.GetCopy(int64(mStart.Uint64()), int64(mSize.Uint64()))
		in.evm.StateDB.AddLog(&types.Log{
			Address:     sc.Contract.Address(),
			Topics:      topics,
			Data:        d,
			BlockNumber: in.evm.BlockNumber.Uint64(),
		})
		return nil, nil
	}
}

// --- system: CREATE / CALL family -------------------------------------------

func opCreate(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	value, offset, size := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	input := sc.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	gas := sc.Contract.Gas
	gas -= gas / 64
	sc.Contract.UseGas(gas)

	_, addr, returnGas, suberr := in.evm.Create(sc.Contract, input, gas, &value)
	stackvalue := size
	if suberr != nil && suberr != ErrExecutionReverted {
		stackvalue.Clear()
	} else {
		stackvalue.SetBytes(addr.Bytes())
	}
	sc.Stack.push(&stackvalue)
	sc.Contract.Gas += returnGas
	return nil, nil
}

func opCreate2(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	endowment, offset, size, salt := sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop(), sc.Stack.pop()
	input := sc.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	gas := sc.Contract.Gas
	gas -= gas / 64
	sc.Contract.UseGas(gas)

	_, addr, returnGas, suberr := in.evm.Create2(sc.Contract, input, gas, &endowment, &salt)
	stackvalue := size
	if suberr != nil && suberr != ErrExecutionReverted {
		stackvalue.Clear()
	} else {
		stackvalue.SetBytes(addr.Bytes())
	}
	sc.Stack.push(&stackvalue)
	sc.Contract.Gas += returnGas
	return nil, nil
}

func opCall(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	gasArg := sc.Stack.pop()
	addr := sc.Stack.pop()
	value := sc.Stack.pop()
	inOffset, inSize := sc.Stack.pop(), sc.Stack.pop()
	retOffset, retSize := sc.Stack.pop(), sc.Stack.pop()

	toAddr := common.Address(addr.Bytes20())
	args := sc.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	if !value.IsZero() {
		gasArg.SetUint64(gasArg.Uint64() + params.CallStipend)
	}
	gas := callGas(in.evm.chainRules.IsEIP150, sc.Contract.Gas, 0, gasArg.Uint64())
	sc.Contract.UseGas(gas)

	ret, returnGas, err := in.evm.Call(sc.Contract, toAddr, args, gas, &value)
	in.returnData = ret
	var success uint256.Int
	if err != nil {
		success.Clear()
	} else {
		success.SetOne()
	}
	sc.Stack.push(&success)
	if err == nil || err == ErrExecutionReverted {
		sc.Memory.Set(retOffset.Uint64(), min64(retSize.Uint64(), uint64(len(ret))), ret)
	}
	sc.Contract.Gas += returnGas
	return nil, nil
}

func opCallCode(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	gasArg := sc.Stack.pop()
	addr := sc.Stack.pop()
	value := sc.Stack.pop()
	inOffset, inSize := sc.Stack.pop(), sc.Stack.pop()
	retOffset, retSize := sc.Stack.pop(), sc.Stack.pop()

	toAddr := common.Address(addr.Bytes20())
	args := sc.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	if !value.IsZero() {
		gasArg.SetUint64(gasArg.Uint64() + params.CallStipend)
	}
	gas := callGas(in.evm.chainRules.IsEIP150, sc.Contract.Gas, 0, gasArg.Uint64())
	sc.Contract.UseGas(gas)

	ret, returnGas, err := in.evm.CallCode(sc.Contract, toAddr, args, gas, &value)
	in.returnData = ret
	var success uint256.Int
	if err != nil {
		success.Clear()
	} else {
		success.SetOne()
	}
	sc.Stack.push(&success)
	if err == nil || err == ErrExecutionReverted {
		sc.Memory.Set(retOffset.Uint64(), min64(retSize.Uint64(), uint64(len(ret))), ret)
	}
	sc.Contract.Gas += returnGas
	return nil, nil
}

func opDelegateCall(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	gasArg := sc.Stack.pop()
	addr := sc.Stack.pop()
	inOffset, inSize := sc.Stack.pop(), sc.Stack.pop()
	retOffset, retSize := sc.Stack.pop(), sc.Stack.pop()

	toAddr := common.Address(addr.Bytes20())
	args := sc.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := callGas(in.evm.chainRules.IsEIP150, sc.Contract.Gas, 0, gasArg.Uint64())
	sc.Contract.UseGas(gas)

	ret, returnGas, err := in.evm.DelegateCall(sc.Contract, toAddr, args, gas)
	in.returnData = ret
	var success uint256.Int
	if err != nil {
		success.Clear()
	} else {
		success.SetOne()
	}
	sc.Stack.push(&success)
	if err == nil || err == ErrExecutionReverted {
		sc.Memory.Set(retOffset.Uint64(), min64(retSize.Uint64(), uint64(len(ret))), ret)
	}
	sc.Contract.Gas += returnGas
	return nil, nil
}

func opStaticCall(pc *uint64, in *EVMInterpreter, sc *ScopeContext) ([]byte, error) {
	gasArg := sc.Stack.pop()
	addr := sc.Stack.pop()
	inOffset, inSize := sc.Stack.pop(), sc.Stack.pop()
	retOffset, retSize := sc.Stack.pop(), sc.Stack.pop()

	toAddr := common.Address(addr.Bytes20())
	args := sc.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gas := callGas(in.evm.chainRules.IsEIP150, sc.Contract.Gas, 0, gasArg.Uint64())
	sc.Contract.UseGas(gas)

	ret, returnGas, err := in.evm.StaticCall(sc.Contract, toAddr, args, gas)
	in.returnData = ret
	var success uint256.Int
	if err != nil {
		success.Clear()
	} else {
		success.SetOne()
	}
	sc.Stack.push(&success)
	if err == nil || err == ErrExecutionReverted {
		sc.Memory.Set(retOffset.Uint64(), min64(retSize.Uint64(), uint64(len(ret))), ret)
	}
	sc.Contract.Gas += returnGas
	return nil, nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// getData returns data[offset:offset+size], zero-padded if the window
// runs past the end (or offset itself overflows uint64).
func getData(data []byte, offset, size uint64) []byte {
	if offset > uint64(len(data)) {
		offset = uint64(len(data))
	}
	end := offset + size
	if end < offset || end > uint64(len(data)) {
		end = uint64(len(data))
	}
	ret := make([]byte, size)
	copy(ret, data[offset:end])
	return ret
}

// --- dynamic gas functions ---------------------------------------------

func memoryStaticCost(stack *Stack, memOffsetIdx, memLengthIdx int) (uint64, bool) {
	offset, length := stack.Back(memOffsetIdx), stack.Back(memLengthIdx)
	return calcMemSize64(offset, length)
}

func memorySha3(stack *Stack) (uint64, bool)        { return memoryStaticCost(stack, 0, 1) }
func memoryCopy(stack *Stack) (uint64, bool)         { return memoryStaticCost(stack, 0, 2) }
func memoryExtCodeCopy(stack *Stack) (uint64, bool)  { return memoryStaticCost(stack, 1, 3) }
func memoryMLoad(stack *Stack) (uint64, bool) {
	off := stack.Back(0)
	return calcMemSize64(off, uint256.NewInt(32))
}
func memoryMStore(stack *Stack) (uint64, bool) {
	off := stack.Back(0)
	return calcMemSize64(off, uint256.NewInt(32))
}
func memoryMStore8(stack *Stack) (uint64, bool) {
	off := stack.Back(0)
	return calcMemSize64(off, uint256.NewInt(1))
}
func memoryCreate(stack *Stack) (uint64, bool) { return memoryStaticCost(stack, 1, 2) }
func memoryReturn(stack *Stack) (uint64, bool) { return memoryStaticCost(stack, 0, 1) }
func memoryLog(stack *Stack) (uint64, bool)    { return memoryStaticCost(stack, 0, 1) }
func memoryCall(stack *Stack) (uint64, bool) {
	m1, o1 := memoryStaticCost(stack, 3, 4)
	m2, o2 := memoryStaticCost(stack, 5, 6)
	if o1 || o2 {
		return 0, true
	}
	if m1 > m2 {
		return m1, false
	}
	return m2, false
}
func memoryDelegateCall(stack *Stack) (uint64, bool) {
	m1, o1 := memoryStaticCost(stack, 2, 3)
	m2, o2 := memoryStaticCost(stack, 4, 5)
	if o1 || o2 {
		return 0, true
	}
	if m1 > m2 {
		return m1, false
	}
	return m2, false
}
func memoryStaticCall(stack *Stack) (uint64, bool) { return memoryDelegateCall(stack) }

func gasSha3(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	size := stack.Back(1)
	words, overflow := size.Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), params.Sha3WordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(gas, wordGas)
}

func gasCallDataCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := stack.Back(2).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), params.CopyGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(gas, wordGas)
}

func gasCodeCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallDataCopy(evm, contract, stack, mem, memorySize)
}

func gasExtCodeCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := stack.Back(3).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), params.CopyGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return safeAdd(gas, wordGas)
}

func gasReturnDataCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallDataCopy(evm, contract, stack, mem, memorySize)
}

func gasMLoad(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}
func gasMStore(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}
func gasMStore8(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}
func gasReturn(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasExpFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	exponent := stack.Back(1)
	byteLen := (exponent.BitLen() + 7) / 8
	gas, overflow := safeMul(uint64(byteLen), params.ExpByteGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasExpEIP158(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	exponent := stack.Back(1)
	byteLen := (exponent.BitLen() + 7) / 8
	gas, overflow := safeMul(uint64(byteLen), params.ExpByteGasEIP158)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

// gasSStoreFrontier implements the pre-Constantinople SSTORE metering of
// spec.md §4.4 "SSTORE": 20000 for a zero->nonzero slot write, 5000
// otherwise, with a 15000-gas refund (capped at tx level) when a
// nonzero slot is cleared to zero.
func gasSStoreFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	loc := stack.Back(0)
	val := stack.Back(1)
	key := common.Hash(loc.Bytes32())
	current := evm.StateDB.GetState(contract.Address(), key)
	newIsZero := val.IsZero()

	if current == (common.Hash{}) && !newIsZero {
		return params.SstoreSetGas, nil
	}
	if current != (common.Hash{}) && newIsZero {
		evm.StateDB.AddRefund(params.SstoreRefundGas)
	}
	return params.SstoreResetGas, nil
}

func gasCreate(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasCallFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	value := stack.Back(2)
	addr := common.Address(stack.Back(1).Bytes20())
	if !value.IsZero() {
		gas += params.CallValueTransferGas
	}
	if !evm.StateDB.Exist(addr) {
		gas += params.CallNewAccountGas
	}
	return gas, nil
}

func gasCallCodeFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	value := stack.Back(2)
	if !value.IsZero() {
		gas += params.CallValueTransferGas
	}
	return gas, nil
}

func gasCallEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallFrontier(evm, contract, stack, mem, memorySize)
}
func gasCallCodeEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallCodeFrontier(evm, contract, stack, mem, memorySize)
}
func gasDelegateCallFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}
func gasDelegateCallEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}
func gasStaticCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

// gasSelfdestructFrontier pre-EIP150 charges nothing beyond the refund;
// gasSelfdestructEIP150 additionally charges CallNewAccountGas when the
// beneficiary account doesn't yet exist (EIP-150's "new account"
// surcharge extended to SELFDESTRUCT).
func gasSelfdestructFrontier(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	if !evm.StateDB.HasSuicided(contract.Address()) {
		evm.StateDB.AddRefund(params.SuicideRefundGas)
	}
	return 0, nil
}

func gasSelfdestructEIP150(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var gas uint64
	if !evm.StateDB.HasSuicided(contract.Address()) {
		evm.StateDB.AddRefund(params.SuicideRefundGas)
	}
	beneficiary := common.Address(stack.Back(0).Bytes20())
	if evm.chainRules.IsEIP158 {
		if evm.StateDB.Empty(beneficiary) && evm.StateDB.GetBalance(contract.Address()).Sign() != 0 {
			gas += params.CallNewAccountGas
		}
	} else if !evm.StateDB.Exist(beneficiary) {
		gas += params.CallNewAccountGas
	}
	return gas, nil
}

func makeGasLog(n int) func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		requestedSize := stack.Back(1)
		if !requestedSize.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		gas, overflow := safeAdd(gas, params.LogGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		topicGas, overflow := safeMul(params.LogTopicGas, uint64(n))
		if overflow {
			return 0, ErrGasUintOverflow
		}
		gas, overflow = safeAdd(gas, topicGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		memGas, overflow := safeMul(requestedSize.Uint64(), params.LogDataGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		gas, overflow = safeAdd(gas, memGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		return gas, nil
	}
}

func safeAdd(a, b uint64) (uint64, bool) {
	c := a + b
	return c, c < a
}
func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	c := a * b
	return c, c/b != a
}
