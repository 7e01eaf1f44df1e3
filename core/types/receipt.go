package types

import (
	"errors"
	"io"
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/rlp"
)

// Receipt transaction status outcomes, the Byzantium replacement for the
// pre-Byzantium intermediate state root (spec.md §4.7 "Receipt").
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

var errInvalidReceiptStatus = errors.New("types: invalid receipt status")

// Receipt records the consequences of executing one transaction
// (spec.md §4.7): the consensus fields (PostState/Status, CumulativeGasUsed,
// Bloom, Logs) are RLP-encoded into the receipts trie; everything else is
// non-consensus bookkeeping for callers.
//
// Before Byzantium (params.ChainConfig.ByzantiumBlock), PostState carries
// the intermediate state root after the transaction; from Byzantium
// onward PostState is empty and Status carries the outcome instead,
// matching the dual shape the Open Question decision in DESIGN.md
// resolves as "branch on len(PostState)".
type Receipt struct {
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             common.Bloom
	Logs              []*Log

	TxHash          common.Hash `rlp:"-"`
	ContractAddress common.Address `rlp:"-"`
	GasUsed         uint64      `rlp:"-"`

	BlockHash        common.Hash `rlp:"-"`
	BlockNumber      *big.Int    `rlp:"-"`
	TransactionIndex uint        `rlp:"-"`
}

// NewReceipt builds a Receipt. A non-nil postState is used verbatim (the
// pre-Byzantium intermediate state root); when postState is nil, failed
// selects ReceiptStatusFailed/Successful.
func NewReceipt(postState []byte, failed bool, cumulativeGasUsed uint64) *Receipt {
	r := &Receipt{CumulativeGasUsed: cumulativeGasUsed}
	if postState != nil {
		r.PostState = common.CopyBytes(postState)
	} else if failed {
		r.Status = ReceiptStatusFailed
	} else {
		r.Status = ReceiptStatusSuccessful
	}
	return r
}

// receiptRLP mirrors Receipt's consensus fields with the PostState/Status
// union collapsed to whichever one byte slice was set, matching how
// go-ethereum's receipt RLP always carries a single "status or root"
// slot of either 0, 32, or {0,1}-as-single-byte length.
type receiptRLP struct {
	PostStateOrStatus []byte
	CumulativeGasUsed uint64
	Bloom             common.Bloom
	Logs              []*Log
}

func (r *Receipt) statusEncoding() []byte {
	if len(r.PostState) == 0 {
		if r.Status == ReceiptStatusFailed {
			return []byte{}
		}
		return []byte{1}
	}
	return r.PostState
}

// EncodeRLP implements rlp.Encoder.
func (r *Receipt) EncodeRLP(w io.Writer) error {
	enc := receiptRLP{
		PostStateOrStatus: r.statusEncoding(),
		CumulativeGasUsed: r.CumulativeGasUsed,
		Bloom:             r.Bloom,
		Logs:              r.Logs,
	}
	data, err := rlp.EncodeToBytes(&enc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DecodeRLP implements rlp.Decoder, splitting PostStateOrStatus back into
// either PostState (32 bytes: pre-Byzantium) or Status (0 or 1 byte).
func (r *Receipt) DecodeRLP(raw []byte) error {
	var dec receiptRLP
	if err := rlp.DecodeBytes(raw, &dec); err != nil {
		return err
	}
	switch len(dec.PostStateOrStatus) {
	case 0:
		r.Status = ReceiptStatusFailed
	case 1:
		if dec.PostStateOrStatus[0] != 1 {
			return errInvalidReceiptStatus
		}
		r.Status = ReceiptStatusSuccessful
	case len(common.Hash{}):
		r.PostState = dec.PostStateOrStatus
	default:
		return errInvalidReceiptStatus
	}
	r.CumulativeGasUsed = dec.CumulativeGasUsed
	r.Bloom = dec.Bloom
	r.Logs = dec.Logs
	return nil
}

// Receipts implements DerivableList for the receipts trie (spec.md §4.6
// "receipts root").
type Receipts []*Receipt

func (rs Receipts) Len() int { return len(rs) }

func (rs Receipts) EncodeIndex(i int, w *[]byte) {
	enc, err := rlp.EncodeToBytes(rs[i])
	if err != nil {
		panic(err)
	}
	*w = enc
}
