package trie

import (
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
)

// emptyRoot is the root hash of an empty trie: Keccak(rlp("")), the anchor
// value spec.md §3/§8 fix as `root_hash(empty)`.
var emptyRoot = crypto.Keccak256Hash([]byte{0x80})

// hashNodeOrCommit recursively computes the content-addressed form of n:
// if its RLP encoding is >= 32 bytes it is written to db (when db is
// non-nil) under Keccak(rlp(n)) and a hashNode reference is returned in
// its place; otherwise n is returned collapsed-but-inline (spec.md §4.2's
// storage discipline). Passing a nil db computes the hash without
// mutating storage, used by Trie.Hash for a read-only root hash.
func hashNodeOrCommit(n Node, db *Database) (Node, error) {
	switch n := n.(type) {
	case *shortNode:
		collapsed, err := hashShort(n, db)
		if err != nil {
			return nil, err
		}
		return maybeHash(collapsed.encode(), db), nil
	case *fullNode:
		collapsed, err := hashFull(n, db)
		if err != nil {
			return nil, err
		}
		return maybeHash(collapsed.encode(), db), nil
	case valueNode, hashNode, nil:
		return n, nil
	default:
		return n, nil
	}
}

func hashShort(n *shortNode, db *Database) (*shortNode, error) {
	switch n.Val.(type) {
	case valueNode, hashNode, nil:
		return n, nil
	default:
		child, err := hashNodeOrCommit(n.Val, db)
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: n.Key, Val: child}, nil
	}
}

func hashFull(n *fullNode, db *Database) (*fullNode, error) {
	cp := n.copy()
	for i, c := range n.Children {
		switch c.(type) {
		case valueNode, hashNode, nil:
			continue
		default:
			h, err := hashNodeOrCommit(c, db)
			if err != nil {
				return nil, err
			}
			cp.Children[i] = h
		}
	}
	return cp, nil
}

// maybeHash embeds enc inline if it is under 32 bytes, or stores it and
// returns a hashNode reference, implementing spec.md §4.2's storage
// discipline. The returned Node is either a hashNode or the node decoded
// back from enc, which the parent encoder embeds inline.
func maybeHash(enc []byte, db *Database) Node {
	if len(enc) < 32 {
		n, err := decodeNode(enc)
		if err != nil {
			// Should never happen: enc was just produced by our own
			// encoder. Fall back to a hash reference rather than panic.
			return commitBlob(enc, db)
		}
		return n
	}
	return commitBlob(enc, db)
}

// encodeForHash returns the RLP encoding of a root node whose own
// encoding is under 32 bytes (the only case where Trie.Hash/Commit need to
// hash the top-level node directly rather than just return its cached
// hashNode reference).
func encodeForHash(n Node) []byte {
	switch n := n.(type) {
	case *shortNode:
		return n.encode()
	case *fullNode:
		return n.encode()
	case valueNode:
		return n
	default:
		return nil
	}
}

func hashNodeDirect(enc []byte) common.Hash {
	return crypto.Keccak256Hash(enc)
}

func commitBlob(enc []byte, db *Database) hashNode {
	var hash common.Hash
	if db != nil {
		hash = db.InsertBlob(enc)
	} else {
		hash = crypto.Keccak256Hash(enc)
	}
	return hashNode(hash[:])
}
