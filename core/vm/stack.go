package vm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Stack is the EVM's 256-bit word stack (spec.md §4.4 "Machine state"),
// capped at params.StackLimit entries.
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

func (st *Stack) push(d *uint256.Int) {
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) len() int { return len(st.data) }

func (st *Stack) swap(n int) {
	st.data[st.len()-n], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[st.len()-n])
}

func (st *Stack) peek() *uint256.Int {
	return &st.data[st.len()-1]
}

// Back returns the n-th value from the top of the stack without popping.
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[st.len()-n-1]
}

func (st *Stack) require(n int) error {
	if st.len() < n {
		return fmt.Errorf("%w: have %d, want %d", errStackUnderflow, st.len(), n)
	}
	return nil
}
