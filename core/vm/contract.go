package vm

import (
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/holiman/uint256"
)

// ContractRef is anything that can be the caller or callee of a message
// call: an EOA (AccountRef) or another executing Contract.
type ContractRef interface {
	Address() common.Address
}

// AccountRef implements ContractRef for a plain externally-owned account.
type AccountRef common.Address

func (ar AccountRef) Address() common.Address { return common.Address(ar) }

// Contract is the execution context of one call frame (spec.md §4.4):
// its code, the gas budget charged against it, and the caller/callee
// identity and value used by CALLER/ADDRESS/CALLVALUE.
type Contract struct {
	CallerAddress common.Address
	caller        ContractRef
	self          ContractRef

	Code     []byte
	CodeHash common.Hash
	CodeAddr *common.Address
	Input    []byte

	Gas   uint64
	value *uint256.Int

	jumpdests map[common.Hash]bitvec
	analysis  bitvec
}

// NewContract returns a new execution frame for running code belonging
// to object, invoked by caller, carrying value.
func NewContract(caller ContractRef, object ContractRef, value *uint256.Int, gas uint64) *Contract {
	c := &Contract{CallerAddress: caller.Address(), caller: caller, self: object, Gas: gas, value: value}
	return c
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	if c.analysis == nil {
		c.analysis = codeBitmap(c.Code)
	}
	return c.analysis.codeSegment(udest)
}

func (c *Contract) SetCallCode(addr *common.Address, hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	c.CodeAddr = addr
}

// AsDelegate configures c to run under the calling contract's value and
// address, i.e. DELEGATECALL semantics.
func (c *Contract) AsDelegate() *Contract {
	c.CallerAddress = c.caller.Address()
	return c
}

func (c *Contract) Caller() common.Address { return c.CallerAddress }
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}
func (c *Contract) Address() common.Address { return c.self.Address() }
func (c *Contract) Value() *uint256.Int     { return c.value }
func (c *Contract) SetCode(hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
}
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}
