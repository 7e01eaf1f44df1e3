package types_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/core/types"
	"github.com/mana-ethereum/mana-sub005/rlp"
)

func TestEmptyBlockHash(t *testing.T) {
	header := &types.Header{
		Difficulty: big.NewInt(131072),
		Number:     big.NewInt(0),
	}
	block := types.NewBlockWithHeader(header)
	if block.Hash() == (common.Hash{}) {
		t.Fatal("expected non-zero block hash")
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	h := &types.Header{
		ParentHash: common.HexToHash("0x01"),
		Coinbase:   common.HexToAddress("0x02"),
		Difficulty: big.NewInt(17179869184),
		Number:     big.NewInt(1),
		GasLimit:   5000,
		GasUsed:    0,
		Time:       1438269988,
		Extra:      []byte("test"),
	}
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		t.Fatal(err)
	}
	var out types.Header
	if err := rlp.DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Coinbase != h.Coinbase || out.GasLimit != h.GasLimit {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, h)
	}
}

func TestDeriveShaEmpty(t *testing.T) {
	if got := types.DeriveSha(types.Transactions(nil)); got != types.EmptyRootHash {
		t.Fatalf("empty tx list should derive to EmptyRootHash, got %x", got)
	}
}

func TestTransactionRLPRoundTrip(t *testing.T) {
	tx := types.NewTransaction(0, common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314"),
		big.NewInt(0), 21000, big.NewInt(1), nil)
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		t.Fatal(err)
	}
	var out types.Transaction
	if err := rlp.DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Nonce() != tx.Nonce() {
		t.Fatalf("nonce mismatch after round trip")
	}
}

func TestContractCreationNilTo(t *testing.T) {
	tx := types.NewContractCreation(0, big.NewInt(0), 53000, big.NewInt(1), []byte{0x60, 0x00})
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		t.Fatal(err)
	}
	var out types.Transaction
	if err := rlp.DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.To() != nil {
		t.Fatal("expected nil To for contract creation after round trip")
	}
	if !bytes.Equal(out.Data(), tx.Data()) {
		t.Fatal("data mismatch after round trip")
	}
}
