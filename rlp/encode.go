package rlp

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"reflect"
)

// EncodeToBytes returns the canonical RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the canonical RLP encoding of val to w.
func Encode(w io.Writer, val interface{}) error {
	b, err := encodeValue(reflect.ValueOf(val))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeBytes returns the canonical RLP encoding of a byte string.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return appendHeaderAndPayload(0x80, 0xB7, b)
}

// EncodeUint64 returns the canonical RLP encoding of i, i.e. its minimal
// big-endian byte representation (zero encodes to the empty string).
func EncodeUint64(i uint64) []byte {
	if i == 0 {
		return []byte{0x80}
	}
	return EncodeBytes(uintToMinimalBytes(i))
}

func uintToMinimalBytes(i uint64) []byte {
	var b [8]byte
	for n := 7; n >= 0; n-- {
		b[n] = byte(i)
		i >>= 8
	}
	trimmed := bytes.TrimLeft(b[:], "\x00")
	return trimmed
}

// EncodeBigInt returns the canonical RLP encoding of a non-negative
// big.Int. A nil pointer is treated as zero.
func EncodeBigInt(i *big.Int) ([]byte, error) {
	if i == nil {
		return []byte{0x80}, nil
	}
	if i.Sign() < 0 {
		return nil, ErrNegativeBigInt
	}
	if i.Sign() == 0 {
		return []byte{0x80}, nil
	}
	return EncodeBytes(i.Bytes()), nil
}

// EncodeListHeader returns the header bytes (only) for a list whose
// concatenated, already-encoded child payloads total contentLen bytes.
func EncodeListHeader(contentLen int) []byte {
	return header(0xC0, 0xF7, uint64(contentLen))
}

// EncodeList concatenates already RLP-encoded parts and prepends the list
// header; used by trie node encoders (spec.md §4.2) to build
// Leaf/Extension/Branch encodings from their already-encoded children.
func EncodeList(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total+9)
	out = append(out, EncodeListHeader(total)...)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func appendHeaderAndPayload(smallBase, largeBase byte, payload []byte) []byte {
	out := header(smallBase, largeBase, uint64(len(payload)))
	return append(out, payload...)
}

func header(smallBase, largeBase byte, size uint64) []byte {
	if size <= 55 {
		return []byte{smallBase + byte(size)}
	}
	var lenBytes []byte
	n := size
	for n > 0 {
		lenBytes = append([]byte{byte(n)}, lenBytes...)
		n >>= 8
	}
	out := make([]byte, 0, 1+len(lenBytes))
	out = append(out, largeBase+byte(len(lenBytes)))
	out = append(out, lenBytes...)
	return out
}

var (
	bigIntType   = reflect.TypeOf(big.Int{})
	byteSliceTy  = reflect.TypeOf([]byte(nil))
	encoderIface = reflect.TypeOf((*Encoder)(nil)).Elem()
)

// encodeValue dispatches on the Go type of v and returns its canonical RLP
// encoding. Structs are encoded as lists of their exported fields in
// declaration order (tag `rlp:"-"` to skip a field), matching the way
// spec.md §3 describes Block/Header/Transaction/Receipt as ordered tuples.
func encodeValue(v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return []byte{0x80}, nil
	}
	if v.Type().Implements(encoderIface) {
		var buf bytes.Buffer
		if err := v.Interface().(Encoder).EncodeRLP(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(encoderIface) {
		var buf bytes.Buffer
		if err := v.Addr().Interface().(Encoder).EncodeRLP(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	switch v.Type() {
	case bigIntType:
		bi := v.Interface().(big.Int)
		return EncodeBigInt(&bi)
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.Type() == reflect.PointerTo(bigIntType) {
			return EncodeBigInt(v.Interface().(*big.Int))
		}
		if v.IsNil() {
			// A nil pointer (e.g. Transaction.To for a contract-creation
			// tx) encodes as the empty string, matching the "optional
			// field" convention spec.md §4.5 relies on for the To field.
			return []byte{0x80}, nil
		}
		return encodeValue(v.Elem())
	case reflect.Bool:
		if v.Bool() {
			return []byte{0x01}, nil
		}
		return []byte{0x80}, nil
	case reflect.String:
		return EncodeBytes([]byte(v.String())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return EncodeUint64(v.Uint()), nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return EncodeBytes(toByteSlice(v)), nil
		}
		parts := make([][]byte, v.Len())
		for i := 0; i < v.Len(); i++ {
			p, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			parts[i] = p
		}
		return EncodeList(parts...), nil
	case reflect.Struct:
		var parts [][]byte
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			if f.Tag.Get("rlp") == "-" {
				continue
			}
			p, err := encodeValue(v.Field(i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		return EncodeList(parts...), nil
	case reflect.Interface:
		if v.IsNil() {
			return []byte{0xC0}, nil
		}
		return encodeValue(v.Elem())
	default:
		return nil, fmt.Errorf("rlp: unsupported type %s", v.Type())
	}
}

func toByteSlice(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}
	b := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(b), v)
	return b
}
