package types

import (
	"errors"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
	"github.com/mana-ethereum/mana-sub005/rlp"
)

var (
	ErrInvalidSig         = errors.New("types: invalid transaction v, r, s values")
	ErrInvalidChainID     = errors.New("types: invalid chain id for signer")
	ErrTxTypeNotSupported = errors.New("types: transaction type not supported")
	errGasUintOverflow    = errors.New("types: gas uint64 overflow")
)

// txdata is the RLP-encoded legacy transaction envelope of spec.md §4.5:
// a signed (Nonce, GasPrice, GasLimit, To, Value, Data) tuple, with To nil
// signifying a contract-creation transaction. It is kept as a separate,
// wholly-exported type so reflection-based RLP sees every field; the
// public Transaction type wraps it behind accessor methods.
type txdata struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int
}

// Transaction wraps the signed envelope with a lazily-computed, cached
// hash.
type Transaction struct {
	inner txdata
	hash  atomic.Pointer[common.Hash]
}

// NewTransaction builds an unsigned transaction destined for `to`.
func NewTransaction(nonce uint64, to common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	toCopy := to
	return &Transaction{inner: txdata{
		Nonce:    nonce,
		To:       &toCopy,
		Value:    new(big.Int).Set(value),
		Gas:      gasLimit,
		GasPrice: new(big.Int).Set(gasPrice),
		Data:     common.CopyBytes(data),
		V:        new(big.Int),
		R:        new(big.Int),
		S:        new(big.Int),
	}}
}

// NewContractCreation builds an unsigned contract-creation transaction.
func NewContractCreation(nonce uint64, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return &Transaction{inner: txdata{
		Nonce:    nonce,
		To:       nil,
		Value:    new(big.Int).Set(value),
		Gas:      gasLimit,
		GasPrice: new(big.Int).Set(gasPrice),
		Data:     common.CopyBytes(data),
		V:        new(big.Int),
		R:        new(big.Int),
		S:        new(big.Int),
	}}
}

func (tx *Transaction) Nonce() uint64       { return tx.inner.Nonce }
func (tx *Transaction) Gas() uint64         { return tx.inner.Gas }
func (tx *Transaction) GasPrice() *big.Int  { return new(big.Int).Set(tx.inner.GasPrice) }
func (tx *Transaction) Value() *big.Int     { return new(big.Int).Set(tx.inner.Value) }
func (tx *Transaction) Data() []byte        { return common.CopyBytes(tx.inner.Data) }
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.V, tx.inner.R, tx.inner.S
}

func (tx *Transaction) To() *common.Address {
	if tx.inner.To == nil {
		return nil
	}
	cpy := *tx.inner.To
	return &cpy
}

// EncodeRLP implements rlp.Encoder by delegating to the inner envelope.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	enc, err := rlp.EncodeToBytes(&tx.inner)
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}

// DecodeRLP implements rlp.Decoder by delegating to the inner envelope.
func (tx *Transaction) DecodeRLP(raw []byte) error {
	return rlp.DecodeBytes(raw, &tx.inner)
}

// ChainId reports to which chain id this signature is intended, per the
// EIP-155 v-derivation `v = {0,1} + CHAIN_ID * 2 + 35` (spec.md §4.5).
func (tx *Transaction) ChainId() *big.Int {
	return deriveChainID(tx.inner.V)
}

func deriveChainID(v *big.Int) *big.Int {
	if v == nil || v.Sign() == 0 {
		return new(big.Int)
	}
	if v.BitLen() <= 8 {
		vv := v.Uint64()
		if vv == 27 || vv == 28 {
			return new(big.Int)
		}
		return new(big.Int).SetUint64((vv - 35) / 2)
	}
	vv := new(big.Int).Sub(v, big.NewInt(35))
	return vv.Div(vv, big.NewInt(2))
}

// Protected reports whether the signature has an EIP-155 chain-id marker.
func (tx *Transaction) Protected() bool {
	if tx.inner.V == nil {
		return false
	}
	return isProtectedV(tx.inner.V)
}

func isProtectedV(v *big.Int) bool {
	if v.BitLen() <= 8 {
		vv := v.Uint64()
		return vv != 27 && vv != 28 && vv != 1 && vv != 0
	}
	return true
}

// Hash returns Keccak256(rlp(tx)) uniquely identifying the signed
// transaction, cached after the first call.
func (tx *Transaction) Hash() common.Hash {
	if h := tx.hash.Load(); h != nil {
		return *h
	}
	h := rlpHash(&tx.inner)
	tx.hash.Store(&h)
	return h
}

// SigningHash returns the hash that was signed to produce V, R, S: the
// RLP encoding of (nonce, gasPrice, gas, to, value, data) for pre-EIP-155
// transactions, or that tuple plus (chainID, 0, 0) for EIP-155 ones
// (spec.md §4.5 "signing hash").
func (tx *Transaction) SigningHash(chainID *big.Int) common.Hash {
	if chainID == nil || chainID.Sign() == 0 {
		return rlpHash([]interface{}{
			tx.inner.Nonce, tx.inner.GasPrice, tx.inner.Gas, tx.inner.To, tx.inner.Value, tx.inner.Data,
		})
	}
	return rlpHash([]interface{}{
		tx.inner.Nonce, tx.inner.GasPrice, tx.inner.Gas, tx.inner.To, tx.inner.Value, tx.inner.Data,
		chainID, uint(0), uint(0),
	})
}

// Sender recovers and returns the sending address from tx's signature,
// validating the recovery id and EIP-2 malleability bound (spec.md §4.5
// "signature validity" and §7.2 "sender recovery").
func (tx *Transaction) Sender(chainID *big.Int) (common.Address, error) {
	v, r, s := tx.inner.V, tx.inner.R, tx.inner.S
	if v == nil || r == nil || s == nil {
		return common.Address{}, ErrInvalidSig
	}
	var recID *big.Int
	signChainID := new(big.Int)
	if tx.Protected() {
		signChainID = tx.ChainId()
		if chainID != nil && chainID.Sign() != 0 && signChainID.Cmp(chainID) != 0 {
			return common.Address{}, ErrInvalidChainID
		}
		recID = new(big.Int).Sub(v, new(big.Int).Mul(signChainID, big.NewInt(2)))
		recID.Sub(recID, big.NewInt(35))
	} else {
		recID = new(big.Int).Sub(v, big.NewInt(27))
	}
	if !crypto.ValidateSignatureValues(byte(recID.Uint64()), r, s, false) {
		return common.Address{}, ErrInvalidSig
	}
	var sig [65]byte
	copy(sig[0:32], common.LeftPadBytes(r.Bytes(), 32))
	copy(sig[32:64], common.LeftPadBytes(s.Bytes(), 32))
	sig[64] = byte(recID.Uint64())

	h := tx.SigningHash(signChainID)
	pub, err := crypto.Ecrecover(h.Bytes(), sig[:])
	if err != nil {
		return common.Address{}, err
	}
	var addr common.Address
	copy(addr[:], crypto.Keccak256(pub[1:])[12:])
	return addr, nil
}

// WithSignature returns a copy of tx carrying signature (r, s, v). v is
// the plain {0,1} recovery id; chainID (if non-zero) folds it into the
// EIP-155 form.
func (tx *Transaction) WithSignature(v byte, r, s *big.Int, chainID *big.Int) *Transaction {
	cpy := &Transaction{inner: tx.inner}
	cpy.inner.R, cpy.inner.S = new(big.Int).Set(r), new(big.Int).Set(s)
	if chainID != nil && chainID.Sign() != 0 {
		cpy.inner.V = new(big.Int).Add(new(big.Int).Mul(chainID, big.NewInt(2)), big.NewInt(35+int64(v)))
	} else {
		cpy.inner.V = big.NewInt(27 + int64(v))
	}
	return cpy
}

// IntrinsicGas returns the gas a transaction must pay before execution
// begins: the base TxGas (or TxGasContractCreation), plus a per-byte fee
// for its data (spec.md §4.5 "intrinsic gas").
func (tx *Transaction) IntrinsicGas(isHomestead, isEIP158 bool) (uint64, error) {
	var gas uint64
	if tx.inner.To == nil && isHomestead {
		gas = params.TxGasContractCreation
	} else {
		gas = params.TxGas
	}
	if len(tx.inner.Data) > 0 {
		var nz uint64
		for _, b := range tx.inner.Data {
			if b != 0 {
				nz++
			}
		}
		if (^uint64(0)-gas)/params.TxDataNonZeroGas < nz {
			return 0, errGasUintOverflow
		}
		gas += nz * params.TxDataNonZeroGas
		z := uint64(len(tx.inner.Data)) - nz
		if (^uint64(0)-gas)/params.TxDataZeroGas < z {
			return 0, errGasUintOverflow
		}
		gas += z * params.TxDataZeroGas
	}
	return gas, nil
}

// Transactions implements DeriveSha's trie-insertable list interface by
// RLP-encoding each transaction under its list index key (spec.md §4.6
// "transactions root").
type Transactions []*Transaction

func (s Transactions) Len() int { return len(s) }

func (s Transactions) EncodeIndex(i int, w *[]byte) {
	enc, err := rlp.EncodeToBytes(&s[i].inner)
	if err != nil {
		panic(err)
	}
	*w = enc
}
