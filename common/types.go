// Package common defines the fixed-size byte types shared across the
// trie, crypto, core/types and core/vm packages: 20-byte addresses,
// 32-byte hashes and the 256-byte (2048-bit) log bloom filter.
package common

import (
	"encoding/hex"
	"fmt"
	"regexp"
)

var addressHexPattern = regexp.MustCompile("^(0x)?[0-9a-fA-F]{40}$")

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// Ethereum address, with or without a leading "0x" prefix.
func IsHexAddress(s string) bool {
	return addressHexPattern.MatchString(s)
}

const (
	// HashLength is the expected length of the hash.
	HashLength = 32
	// AddressLength is the expected length of the address.
	AddressLength = 20
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets b to hash. If b is larger than len(h), b will be cropped
// from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash sets byte representation of s to hash. If s is larger than
// len(h), s will be cropped from the left.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// SetBytes sets the hash to the value of b. If b is larger than len(h), b
// will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the raw bytes backing h.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns an EIP55-uncompliant hex string representation of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

// TerminalString implements log.TerminalStringer.
func (h Hash) TerminalString() string {
	return fmt.Sprintf("%x…%x", h[:3], h[29:])
}

// Cmp compares two hashes lexicographically.
func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Address represents the 20 byte address of an Ethereum account.
type Address [AddressLength]byte

// BytesToAddress sets a to bytes. If bytes is larger than len(a), bytes
// will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress sets the byte representation of s to an address value.
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// SetBytes sets the address to the value of b. If b is larger than len(a),
// b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the raw bytes backing a.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex string representation of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Address{} }

// Hash returns the left-padded, 32-byte Hash view of the address, as used
// when deriving an MPT key for the world state trie: Keccak(address) takes
// the raw 20 bytes, but callers that need a Hash-typed key use this.
func (a Address) Hash() Hash { return BytesToHash(a[:]) }

// BloomByteLength is the number of bytes used in a header log bloom.
const BloomByteLength = 256

// Bloom represents a 2048 bit bloom filter.
type Bloom [BloomByteLength]byte

// BytesToBloom sets b to bloom. If b is larger than len(bloom), b will be
// cropped from the left.
func BytesToBloom(b []byte) Bloom {
	var bloom Bloom
	bloom.SetBytes(b)
	return bloom
}

// SetBytes sets the content of b to the given bytes.
func (b *Bloom) SetBytes(d []byte) {
	if len(b) < len(d) {
		panic(fmt.Sprintf("bloom bytes too big %d %d", len(b), len(d)))
	}
	copy(b[BloomByteLength-len(d):], d)
}

// Bytes returns the raw bytes backing b.
func (b Bloom) Bytes() []byte { return b[:] }

// Big batches of zero addresses/hashes are referenced often enough in
// account cleanup and genesis handling to warrant package-level constants.
var (
	ZeroAddress = Address{}
	ZeroHash    = Hash{}
)
