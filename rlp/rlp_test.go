package rlp

import (
	"bytes"
	"math/big"
	"testing"
)

func TestEncodeEmptyString(t *testing.T) {
	got, err := EncodeToBytes([]byte{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeSingleByteBelow0x80(t *testing.T) {
	got, err := EncodeToBytes([]byte{0x61})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x61}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeShortString(t *testing.T) {
	got, err := EncodeToBytes([]byte("dog"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x83, 'd', 'o', 'g'}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeLongString(t *testing.T) {
	s := bytes.Repeat([]byte{'a'}, 60)
	got, err := EncodeToBytes(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got[0] != 0xb8 || got[1] != 60 {
		t.Fatalf("unexpected long-string header: %x", got[:2])
	}
}

func TestEncodeDecodeUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 255, 1024, 1 << 40} {
		enc, err := EncodeToBytes(v)
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		var got uint64
		if err := DecodeBytes(enc, &got); err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
	}
}

func TestEncodeDecodeBigIntRoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).Lsh(big.NewInt(1), 255),
	}
	for _, v := range values {
		enc, err := EncodeToBytes(v)
		if err != nil {
			t.Fatalf("encode %s: %v", v, err)
		}
		var got big.Int
		if err := DecodeBytes(enc, &got); err != nil {
			t.Fatalf("decode %s: %v", v, err)
		}
		if got.Cmp(v) != 0 {
			t.Errorf("got %s, want %s", &got, v)
		}
	}
}

func TestEncodeDecodeListRoundTrip(t *testing.T) {
	type pair struct {
		A uint64
		B []byte
	}
	want := pair{A: 42, B: []byte("cat")}

	enc, err := EncodeToBytes(&want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got pair
	if err := DecodeBytes(enc, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.A != want.A || !bytes.Equal(got.B, want.B) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeToBytes([]byte("dog"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	enc = append(enc, 0xff)
	var out []byte
	if err := DecodeBytes(enc, &out); err == nil {
		t.Fatalf("expected an error for trailing bytes after a complete value")
	}
}
