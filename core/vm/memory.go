package vm

import (
	"github.com/holiman/uint256"
)

// Memory is the EVM's byte-addressable, word-expanding scratch memory
// (spec.md §4.4 "Machine state"): it grows in 32-byte words and the
// interpreter charges quadratic gas for each expansion (gas.go).
type Memory struct {
	store       []byte
	lastGasCost uint64
}

func NewMemory() *Memory { return &Memory{} }

// Resize grows the backing slice to size bytes, zero-filling the new
// portion. The caller (the interpreter loop) charges the expansion gas
// computed by gas.go's memoryGasCost before calling Resize.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Set writes value into the memory region [offset, offset+len(value)).
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		panic("vm: invalid memory: store too small")
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes val, left-padded to 32 bytes, at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		panic("vm: invalid memory: store too small")
	}
	b32 := val.Bytes32()
	copy(m.store[offset:offset+32], b32[:])
}

// GetCopy returns a copy of the memory region [offset, offset+size).
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if len(m.store) > int(offset) {
		cpy := make([]byte, size)
		copy(cpy, m.store[offset:offset+size])
		return cpy
	}
	return make([]byte, size)
}

// GetPtr returns a slice view (no copy) of the memory region.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

func (m *Memory) Len() int { return len(m.store) }

func (m *Memory) Data() []byte { return m.store }

// calcMemSize64 returns the highest byte offset a MEMOPCODE touching
// [off, off+size) requires memory to be sized to (off+size, not rounded to
// a word), and whether the computation overflowed.
func calcMemSize64(off, length *uint256.Int) (uint64, bool) {
	if length.IsZero() {
		return 0, false
	}
	if !off.IsUint64() || !length.IsUint64() {
		return 0, true
	}
	offU, lenU := off.Uint64(), length.Uint64()
	if offU > (1<<63)/1 || lenU > (1<<63) {
		return 0, true
	}
	total := offU + lenU
	if total < offU {
		return 0, true
	}
	return total, false
}

func toWordSize(size uint64) uint64 {
	if size > (1<<64-1)-31 {
		return (1<<64 - 1) / 32
	}
	return (size + 31) / 32
}
