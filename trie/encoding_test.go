package trie

import (
	"bytes"
	"testing"
)

func TestHexToCompactLeafEven(t *testing.T) {
	hex := []byte{1, 2, 3, 4, 16}
	compact := hexToCompact(hex)
	want := []byte{0x20, 0x12, 0x34}
	if !bytes.Equal(compact, want) {
		t.Errorf("hexToCompact(%v) = %x, want %x", hex, compact, want)
	}
}

func TestHexToCompactLeafOdd(t *testing.T) {
	hex := []byte{1, 2, 3, 16}
	compact := hexToCompact(hex)
	want := []byte{0x31, 0x23}
	if !bytes.Equal(compact, want) {
		t.Errorf("hexToCompact(%v) = %x, want %x", hex, compact, want)
	}
}

func TestHexToCompactExtensionEven(t *testing.T) {
	hex := []byte{1, 2, 3, 4}
	compact := hexToCompact(hex)
	want := []byte{0x00, 0x12, 0x34}
	if !bytes.Equal(compact, want) {
		t.Errorf("hexToCompact(%v) = %x, want %x", hex, compact, want)
	}
}

func TestHexToCompactExtensionOdd(t *testing.T) {
	hex := []byte{1, 2, 3}
	compact := hexToCompact(hex)
	want := []byte{0x11, 0x23}
	if !bytes.Equal(compact, want) {
		t.Errorf("hexToCompact(%v) = %x, want %x", hex, compact, want)
	}
}

func TestCompactToHexRoundtrip(t *testing.T) {
	tests := [][]byte{
		{1, 2, 3, 4, 16},
		{1, 2, 3, 16},
		{1, 2, 3, 4},
		{1, 2, 3},
		{0, 16},
		{0xf, 0xa, 0xb, 16},
		{},
	}
	for _, hex := range tests {
		compact := hexToCompact(hex)
		got := compactToHex(compact)
		if !bytes.Equal(got, hex) {
			t.Errorf("compactToHex(hexToCompact(%v)) = %v, want %v", hex, got, hex)
		}
	}
}

func TestKeybytesToHex(t *testing.T) {
	key := []byte{0x12, 0x34, 0x56}
	hex := keybytesToHex(key)
	want := []byte{1, 2, 3, 4, 5, 6, 16}
	if !bytes.Equal(hex, want) {
		t.Errorf("keybytesToHex(%x) = %v, want %v", key, hex, want)
	}
}

func TestHexToKeybytes(t *testing.T) {
	hex := []byte{1, 2, 3, 4, 5, 6, 16}
	key := hexToKeybytes(hex)
	want := []byte{0x12, 0x34, 0x56}
	if !bytes.Equal(key, want) {
		t.Errorf("hexToKeybytes(%v) = %x, want %x", hex, key, want)
	}
}

func TestKeybytesRoundtrip(t *testing.T) {
	keys := [][]byte{
		{},
		{0x00},
		{0xff},
		{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0},
		{0x00, 0x00, 0x00},
	}
	for _, key := range keys {
		hex := keybytesToHex(key)
		got := hexToKeybytes(hex)
		if !bytes.Equal(got, key) {
			t.Errorf("hexToKeybytes(keybytesToHex(%x)) = %x, want %x", key, got, key)
		}
	}
}

func TestPrefixLen(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 4}, 2},
		{[]byte{1, 2, 3}, []byte{1, 2, 3}, 3},
		{[]byte{1, 2, 3}, []byte{4, 5, 6}, 0},
		{[]byte{}, []byte{1}, 0},
		{[]byte{1}, []byte{}, 0},
	}
	for _, tt := range tests {
		got := prefixLen(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("prefixLen(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHasTerm(t *testing.T) {
	if !hasTerm([]byte{1, 2, 3, 16}) {
		t.Error("expected hasTerm to return true")
	}
	if hasTerm([]byte{1, 2, 3}) {
		t.Error("expected hasTerm to return false")
	}
	if hasTerm([]byte{}) {
		t.Error("expected hasTerm to return false for empty")
	}
}
