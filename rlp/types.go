// Package rlp implements the Recursive Length Prefix encoding described in
// spec.md §4.1: the canonical serialization of non-negative integers, byte
// strings and ordered lists that underlies every hashable or storable
// Ethereum object (trie nodes, accounts, transactions, receipts, headers).
package rlp

import (
	"errors"
	"io"
	"reflect"
)

// Kind identifies the outermost shape of an RLP value.
type Kind int

const (
	Byte Kind = iota
	String
	List
)

var (
	// ErrExpectedString is returned when a list was found where a string was expected.
	ErrExpectedString = errors.New("rlp: expected string or byte")
	// ErrExpectedList is returned when a string was found where a list was expected.
	ErrExpectedList = errors.New("rlp: expected list")
	// ErrCanonSize is returned when a length prefix uses a non-minimal encoding.
	ErrCanonSize = errors.New("rlp: non-canonical size information")
	// ErrCanonInt is returned when an integer encoding has leading zero bytes.
	ErrCanonInt = errors.New("rlp: non-canonical integer format")
	// ErrElemTooLarge reports an element larger than its containing list; no function in this package returns it.
	ErrElemTooLarge = errors.New("rlp: element is larger than containing list")
	// ErrValueTooLarge is returned when a length prefix claims more bytes than the remaining input,
	// or when a decoded value doesn't fit the destination type (an integer over 8 bytes, a byte string longer than its array).
	ErrValueTooLarge = errors.New("rlp: value size exceeds available input")
	// ErrMoreThanOneValue is returned by DecodeBytes when b contains additional data after the decoded value.
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")
	// ErrNegativeBigInt is returned when encoding a negative big.Int.
	ErrNegativeBigInt = errors.New("rlp: cannot encode negative big.Int")
)

// Encoder is implemented by types that know how to encode themselves as RLP.
type Encoder interface {
	EncodeRLP(io.Writer) error
}

// Decoder is implemented by types that know how to decode themselves from
// a raw, not-yet-validated RLP value.
type Decoder interface {
	DecodeRLP(b []byte) error
}

// RawValue represents an already RLP-encoded value, and can be used to
// postpone RLP decoding or to precompute an encoding once, e.g. for
// content-addressed MPT node storage.
type RawValue []byte

// EncodeRLP implements Encoder: a RawValue writes itself verbatim.
func (r RawValue) EncodeRLP(w io.Writer) error {
	_, err := w.Write(r)
	return err
}

var rawValueType = reflect.TypeOf(RawValue{})
