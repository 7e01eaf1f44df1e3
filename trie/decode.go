package trie

import (
	"fmt"
	"io"

	"github.com/mana-ethereum/mana-sub005/rlp"
)

// decodeNode parses the RLP encoding of a single MPT node (spec.md §4.2):
// a 2-element list decodes to a shortNode (leaf or extension, disambiguated
// by the hex-prefix terminator bit), a 17-element list decodes to a
// fullNode (branch).
func decodeNode(buf []byte) (Node, error) {
	if len(buf) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	elems, _, err := rlp.SplitList(buf)
	if err != nil {
		return nil, fmt.Errorf("trie: decode error: %w", err)
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("trie: invalid node: %d list elements", c)
	}
}

func decodeShort(elems []byte) (Node, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	key := compactToHex(kbuf)
	if hasTerm(key) {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("trie: invalid leaf value: %w", err)
		}
		return &shortNode{Key: key, Val: valueNode(append([]byte(nil), val...))}, nil
	}
	r, _, err := decodeRef(rest)
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: r}, nil
}

func decodeFull(elems []byte) (*fullNode, error) {
	n := &fullNode{}
	for i := 0; i < 16; i++ {
		cld, rest, err := decodeRef(elems)
		if err != nil {
			return nil, fmt.Errorf("trie: invalid branch child %d: %w", i, err)
		}
		n.Children[i], elems = cld, rest
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(append([]byte(nil), val...))
	}
	return n, nil
}

// decodeRef decodes one child reference: the empty string decodes to a nil
// child, a 32-byte string decodes to a hashNode, and an inline list decodes
// recursively to the full sub-node (spec.md §4.2's "embed if < 32 bytes"
// rule, inverted on read).
func decodeRef(buf []byte) (Node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, buf, err
	}
	switch {
	case kind == rlp.List:
		size := len(buf) - len(rest)
		if size > 32 {
			return nil, buf, fmt.Errorf("trie: oversized embedded node (%d bytes)", size)
		}
		n, err := decodeNode(buf[:size])
		return n, rest, err
	case kind == rlp.String && len(val) == 0:
		return nil, rest, nil
	case len(val) == 32:
		return hashNode(append([]byte(nil), val...)), rest, nil
	default:
		return nil, nil, fmt.Errorf("trie: invalid reference size %d", len(val))
	}
}
