package core

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/state"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/core/vm"
	"github.com/mana-ethereum/mana-sub005/params"
)

// Transaction validation errors, spec.md §4.5 step 2 and §7.2/§7.3.
var (
	ErrNonceTooLow       = errors.New("core: nonce too low")
	ErrNonceTooHigh      = errors.New("core: nonce too high")
	ErrInsufficientFunds = errors.New("core: insufficient funds for gas * price + value")
	ErrIntrinsicGas      = errors.New("core: intrinsic gas too low")
	ErrGasLimitReached   = errors.New("core: gas limit reached")
	ErrSenderNoEOA       = errors.New("core: sender not an eoa")
	ErrGasUintOverflow   = errors.New("core: gas uint64 overflow")
)

// Message is a transaction flattened into the fields the state
// transition needs, decoupled from the wire Transaction type so tests
// can build one without going through RLP signing.
type Message struct {
	From       common.Address
	To         *common.Address
	Nonce      uint64
	Value      *big.Int
	GasLimit   uint64
	GasPrice   *big.Int
	Data       []byte
	CheckNonce bool
}

// TransactionToMessage recovers the sender and flattens tx into a
// Message, per spec.md §4.5 step 1.
func TransactionToMessage(tx *types.Transaction, chainID *big.Int) (Message, error) {
	from, err := tx.Sender(chainID)
	if err != nil {
		return Message{}, fmt.Errorf("core: invalid transaction signature: %w", err)
	}
	return Message{
		From:       from,
		To:         tx.To(),
		Nonce:      tx.Nonce(),
		Value:      tx.Value(),
		GasLimit:   tx.Gas(),
		GasPrice:   tx.GasPrice(),
		Data:       tx.Data(),
		CheckNonce: true,
	}, nil
}

// StateTransition executes a single Message against a StateDB bound to
// evm, implementing spec.md §4.5's apply_message in full: validation,
// gas prepayment, the top-level call, refund, and EIP-161 state
// clearing afterward (the last step runs via StateDB.Finalise, driven
// by the block processor after every transaction).
type StateTransition struct {
	evm      *vm.EVM
	msg      Message
	gasLeft  uint64
	gasPrice *big.Int
	statedb  *state.StateDB
}

// ExecutionResult is what Apply returns: the gas actually
// consumed, any top-level revert reason, and whether the outermost call
// failed (distinguishing a clean return from a reverted/errored one for
// receipt status assembly).
type ExecutionResult struct {
	UsedGas    uint64
	Failed     bool
	ReturnData []byte
	Err        error
}

// NewStateTransition returns a StateTransition ready to Apply msg
// against evm's StateDB.
func NewStateTransition(evm *vm.EVM, msg Message) *StateTransition {
	return &StateTransition{
		evm:      evm,
		msg:      msg,
		gasPrice: msg.GasPrice,
		statedb:  evm.StateDB,
	}
}

func (st *StateTransition) buyGas() error {
	maxFee := new(big.Int).Mul(new(big.Int).SetUint64(st.msg.GasLimit), st.gasPrice)
	total := new(big.Int).Add(maxFee, st.msg.Value)
	if st.statedb.GetBalance(st.msg.From).Cmp(total) < 0 {
		return ErrInsufficientFunds
	}
	st.statedb.SubBalance(st.msg.From, maxFee)
	st.gasLeft = st.msg.GasLimit
	return nil
}

func (st *StateTransition) preCheck() error {
	if st.msg.CheckNonce {
		stNonce := st.statedb.GetNonce(st.msg.From)
		if stNonce < st.msg.Nonce {
			return fmt.Errorf("%w: have %d, want %d", ErrNonceTooHigh, stNonce, st.msg.Nonce)
		} else if stNonce > st.msg.Nonce {
			return fmt.Errorf("%w: have %d, want %d", ErrNonceTooLow, stNonce, st.msg.Nonce)
		}
	}
	return st.buyGas()
}

// Apply runs the full transaction executor pipeline of spec.md §4.5 and
// returns the resulting ExecutionResult. It does not itself call
// StateDB.Finalise — the block processor does that once per transaction
// so the next transaction sees a consistent post-state.
func (st *StateTransition) Apply() (*ExecutionResult, error) {
	rules := st.evm.ChainConfig().Rules(st.evm.BlockNumber)

	if err := st.preCheck(); err != nil {
		return nil, err
	}

	intrinsicGas, err := intrinsicGas(st.msg.Data, st.msg.To == nil, rules.IsHomestead, rules.IsEIP158)
	if err != nil {
		return nil, err
	}
	if st.gasLeft < intrinsicGas {
		return nil, ErrIntrinsicGas
	}
	st.gasLeft -= intrinsicGas

	st.statedb.SetNonce(st.msg.From, st.statedb.GetNonce(st.msg.From)+1)

	var (
		ret      []byte
		vmerr    error
		leftOver uint64
		value    = new(uint256.Int)
	)
	overflow := value.SetFromBig(st.msg.Value)
	if overflow {
		return nil, ErrGasUintOverflow
	}

	sender := vm.AccountRef(st.msg.From)
	if st.msg.To == nil {
		ret, _, leftOver, vmerr = st.evm.Create(sender, st.msg.Data, st.gasLeft, value)
	} else {
		ret, leftOver, vmerr = st.evm.Call(sender, *st.msg.To, st.msg.Data, st.gasLeft, value)
	}
	st.gasLeft = leftOver

	st.refundGas()

	coinbaseReward := new(big.Int).Mul(new(big.Int).SetUint64(st.gasUsed()), st.gasPrice)
	st.statedb.AddBalance(st.evm.Coinbase, coinbaseReward)

	return &ExecutionResult{
		UsedGas:    st.gasUsed(),
		Failed:     vmerr != nil,
		ReturnData: ret,
		Err:        vmerr,
	}, nil
}

// refundGas credits back the unused gas plus min(gas_used/2,
// refund_counter) at gas price, spec.md §4.5 step 5.
func (st *StateTransition) refundGas() {
	refund := st.gasUsed() / 2
	if refund > st.statedb.GetRefund() {
		refund = st.statedb.GetRefund()
	}
	st.gasLeft += refund

	remaining := new(big.Int).Mul(new(big.Int).SetUint64(st.gasLeft), st.gasPrice)
	st.statedb.AddBalance(st.msg.From, remaining)
}

func (st *StateTransition) gasUsed() uint64 {
	return st.msg.GasLimit - st.gasLeft
}

// intrinsicGas implements spec.md §4.5 step 2's intrinsic cost formula:
// 21000 base (53000 for contract creation, post-Homestead), plus 4 gas
// per zero data byte and 68 per non-zero byte.
func intrinsicGas(data []byte, isContractCreation, isHomestead, isEIP158 bool) (uint64, error) {
	var gas uint64
	if isContractCreation && isHomestead {
		gas = params.TxGasContractCreation
	} else {
		gas = params.TxGas
	}
	if len(data) > 0 {
		var nz uint64
		for _, b := range data {
			if b != 0 {
				nz++
			}
		}
		if (^uint64(0)-gas)/params.TxDataNonZeroGas < nz {
			return 0, ErrGasUintOverflow
		}
		gas += nz * params.TxDataNonZeroGas

		z := uint64(len(data)) - nz
		if (^uint64(0)-gas)/params.TxDataZeroGas < z {
			return 0, ErrGasUintOverflow
		}
		gas += z * params.TxDataZeroGas
	}
	return gas, nil
}
