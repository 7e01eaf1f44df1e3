package trie

import (
	"fmt"

	"github.com/mana-ethereum/mana-sub005/rlp"
)

// Node is the common type of the four MPT node variants of spec.md §3:
// emptyNode (the nil Node value), *shortNode (leaf or extension,
// disambiguated by hasTerm(Key)), *fullNode (16-way branch plus value),
// hashNode (a 32-byte child reference to a node stored in the KV store)
// and valueNode (an inline leaf/branch value).
type Node interface {
	fstring(ind string) string
}

type (
	// fullNode is the Branch([child_ref;16], value) node of spec.md §3.
	fullNode struct {
		Children [17]Node // 16 nibble slots + value slot
	}
	// shortNode represents both Leaf(nibbles, value) and
	// Extension(nibbles, child_ref): Val is a valueNode for a leaf, any
	// other Node for an extension.
	shortNode struct {
		Key []byte
		Val Node
	}
	// hashNode is a committed child reference: Keccak(rlp(child)).
	hashNode []byte
	// valueNode is an inline leaf value or branch value.
	valueNode []byte
)

func (n *fullNode) copy() *fullNode {
	cp := *n
	return &cp
}

// encode returns the canonical RLP encoding of a fullNode: a 17-element
// list where each child is either an inline node (<32 byte RLP) or a
// 32-byte hash reference, and the 17th slot is the branch's own value (or
// the empty string if absent) — spec.md §4.2.
func (n *fullNode) encode() []byte {
	parts := make([][]byte, 17)
	for i, c := range n.Children {
		parts[i] = encodeChildRef(c)
	}
	return rlp.EncodeList(parts...)
}

func (n *shortNode) encode() []byte {
	key := hexToCompact(n.Key)
	return rlp.EncodeList(rlp.EncodeBytes(key), encodeChildRef(n.Val))
}

// encodeChildRef encodes a child slot: nil -> empty string, valueNode ->
// byte string, hashNode -> 32-byte string, any other Node -> its own
// already-inlined RLP encoding (only valid if that encoding is < 32 bytes,
// guaranteed by the hasher before a node is ever stored as a child in
// uncommitted form).
func encodeChildRef(n Node) []byte {
	switch n := n.(type) {
	case nil:
		return rlp.EncodeBytes(nil)
	case valueNode:
		return rlp.EncodeBytes(n)
	case hashNode:
		return rlp.EncodeBytes(n)
	case *shortNode:
		return n.encode()
	case *fullNode:
		return n.encode()
	case rlp.RawValue:
		return n
	default:
		panic(fmt.Sprintf("trie: unknown child type %T", n))
	}
}

func (n *fullNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, node := range n.Children {
		if node == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
			continue
		}
		resp += fmt.Sprintf("%s: %v", indices[i], node.fstring(ind+"  "))
	}
	return resp + fmt.Sprintf("\n%s]", ind)
}

func (n *shortNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Key, n.Val.fstring(ind+"  "))
}

func (n hashNode) fstring(ind string) string  { return fmt.Sprintf("<%x> ", []byte(n)) }
func (n valueNode) fstring(ind string) string { return fmt.Sprintf("%x ", []byte(n)) }

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]"}
