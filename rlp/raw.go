package rlp

// This file implements the low-level split/header primitives used both by
// the reflection-based Encode/Decode in encode.go/decode.go and directly by
// the trie package, which needs fine control over whether a child
// reference is an inlined node or a 32-byte hash (spec.md §4.2).

// Split returns the content of the first RLP value plus the unconsumed
// remainder of b, and the Kind of that value.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	if len(b) == 0 {
		return 0, nil, nil, io_ErrUnexpectedEOF
	}
	size, isList, headerLen, err := readHeader(b)
	if err != nil {
		return 0, nil, nil, err
	}
	end := headerLen + size
	if end > uint64(len(b)) {
		return 0, nil, nil, ErrValueTooLarge
	}
	content, rest = b[headerLen:end], b[end:]
	if isList {
		return List, content, rest, nil
	}
	return String, content, rest, nil
}

// SplitString splits b into the content of an RLP string and any remaining
// bytes after that string.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if k == List {
		return nil, nil, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList splits b into the content of a first RLP list and any
// remaining bytes after the list.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if k != List {
		return nil, nil, ErrExpectedList
	}
	return content, rest, nil
}

// CountValues counts the number of encoded values in b, not descending into
// lists. Used to determine the arity of a decoded list (e.g. trie branch =
// 17 values, leaf/extension = 2, pre-/post-Byzantium receipt shape).
func CountValues(b []byte) (int, error) {
	i := 0
	for ; len(b) > 0; i++ {
		_, _, rest, err := Split(b)
		if err != nil {
			return 0, err
		}
		b = rest
	}
	return i, nil
}

// readHeader parses the length prefix at the start of b and returns the
// content size, whether it denotes a list, and the number of header bytes
// consumed.
func readHeader(b []byte) (size uint64, isList bool, headerLen uint64, err error) {
	tag := b[0]
	switch {
	case tag < 0x80:
		return 1, false, 0, nil
	case tag < 0xB8:
		size = uint64(tag - 0x80)
		if size == 1 && len(b) > 1 && b[1] < 0x80 {
			return 0, false, 0, ErrCanonSize
		}
		return size, false, 1, nil
	case tag < 0xC0:
		lenLen := uint64(tag - 0xB7)
		s, err := parseLength(b, lenLen)
		if err != nil {
			return 0, false, 0, err
		}
		if s < 56 {
			return 0, false, 0, ErrCanonSize
		}
		return s, false, 1 + lenLen, nil
	case tag < 0xF8:
		return uint64(tag - 0xC0), true, 1, nil
	default:
		lenLen := uint64(tag - 0xF7)
		s, err := parseLength(b, lenLen)
		if err != nil {
			return 0, false, 0, err
		}
		if s < 56 {
			return 0, false, 0, ErrCanonSize
		}
		return s, true, 1 + lenLen, nil
	}
}

func parseLength(b []byte, lenLen uint64) (uint64, error) {
	if uint64(len(b)) <= lenLen {
		return 0, io_ErrUnexpectedEOF
	}
	lenBytes := b[1 : 1+lenLen]
	if lenBytes[0] == 0 {
		return 0, ErrCanonSize
	}
	var s uint64
	for _, bb := range lenBytes {
		s = s<<8 | uint64(bb)
	}
	return s, nil
}

// headerSize returns the number of bytes the length prefix for a string (or
// list) payload of the given size occupies, per spec.md §4.1.
func headerSize(size uint64, isList bool) uint64 {
	if !isList && size == 1 {
		return 0 // single byte < 0x80 encodes to itself, checked by caller
	}
	if size <= 55 {
		return 1
	}
	return 1 + uintSize(size)
}

func uintSize(i uint64) uint64 {
	n := uint64(1)
	for i >= 256 {
		i >>= 8
		n++
	}
	return n
}

// io_ErrUnexpectedEOF avoids importing io just for this sentinel alias.
var io_ErrUnexpectedEOF = errUnexpectedEOF{}

type errUnexpectedEOF struct{}

func (errUnexpectedEOF) Error() string { return "rlp: unexpected end of input" }
