package trie

import (
	"bytes"
	"fmt"

	"github.com/mana-ethereum/mana-sub005/common"
)

// Trie implements the Merkle Patricia Trie of spec.md §4.2: a persistent,
// content-addressed, ordered key/value store whose root hash commits to
// its contents. Get/Update/Delete operate on nibble-expanded keys;
// Hash/Commit realize the copy-on-write storage discipline described in
// spec.md §4.2/§9 by only ever writing new nodes, never rewriting old
// ones.
type Trie struct {
	db   *Database
	root Node
}

// New opens a trie rooted at root. An empty/zero root (or the canonical
// empty-trie hash) yields an empty trie.
func New(db *Database, root common.Hash) (*Trie, error) {
	t := &Trie{db: db}
	if root == (common.Hash{}) || root == emptyRoot {
		return t, nil
	}
	if db == nil {
		return nil, fmt.Errorf("trie: cannot open non-empty trie %s with nil db", root.Hex())
	}
	rootnode, err := t.resolveHash(hashNode(root.Bytes()), nil)
	if err != nil {
		return nil, err
	}
	t.root = rootnode
	return t, nil
}

// Copy returns a Trie sharing the same db but with an independent root
// pointer, so the caller's subsequent Update/Delete calls do not affect
// the original — the "update returns a new Trie'" shape of spec.md §4.2,
// realized cheaply since nodes themselves are immutable once hashed.
func (t *Trie) Copy() *Trie {
	return &Trie{db: t.db, root: t.root}
}

// Get returns the value stored for key, or nil if key is absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	value, newroot, didResolve, err := t.get(t.root, keybytesToHex(key), 0)
	if err == nil && didResolve {
		t.root = newroot
	}
	if v, ok := value.(valueNode); ok {
		return []byte(v), err
	}
	return nil, err
}

func (t *Trie) get(origNode Node, key []byte, pos int) (value Node, newnode Node, didResolve bool, err error) {
	switch n := origNode.(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytes.Equal(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, false, nil
		}
		value, newnode, didResolve, err = t.get(n.Val, key, pos+len(n.Key))
		if err == nil && didResolve {
			n = n.copyWith(newnode)
			return value, n, true, nil
		}
		return value, n, didResolve, err
	case *fullNode:
		value, newnode, didResolve, err = t.get(n.Children[key[pos]], key, pos+1)
		if err == nil && didResolve {
			n = n.copy()
			n.Children[key[pos]] = newnode
			return value, n, true, nil
		}
		return value, n, didResolve, err
	case hashNode:
		child, err := t.resolveHash(n, key[:pos])
		if err != nil {
			return nil, n, true, err
		}
		value, newnode, _, err := t.get(child, key, pos)
		return value, newnode, true, err
	default:
		panic(fmt.Sprintf("trie: invalid node: %T", origNode))
	}
}

func (n *shortNode) copyWith(val Node) *shortNode {
	return &shortNode{Key: n.Key, Val: val}
}

// Update associates key with value, deleting key when value is empty
// (spec.md §4.2). Returns an error only on corruption (a dangling hash
// reference encountered while descending).
func (t *Trie) Update(key, value []byte) error {
	if len(value) != 0 {
		_, n, err := t.insert(t.root, nil, keybytesToHex(key), valueNode(value))
		if err != nil {
			return err
		}
		t.root = n
		return nil
	}
	_, n, err := t.delete(t.root, nil, keybytesToHex(key))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) insert(n Node, prefix, key []byte, value Node) (bool, Node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			return !bytes.Equal(v, value.(valueNode)), value, nil
		}
		return true, value, nil
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			dirty, nn, err := t.insert(n.Val, append(prefix, key[:matchlen]...), key[matchlen:], value)
			if !dirty || err != nil {
				return false, n, err
			}
			return true, &shortNode{Key: n.Key, Val: nn}, nil
		}
		branch := &fullNode{}
		var err error
		_, branch.Children[n.Key[matchlen]], err = t.insert(nil, append(prefix, n.Key[:matchlen+1]...), n.Key[matchlen+1:], n.Val)
		if err != nil {
			return false, nil, err
		}
		_, branch.Children[key[matchlen]], err = t.insert(nil, append(prefix, key[:matchlen+1]...), key[matchlen+1:], value)
		if err != nil {
			return false, nil, err
		}
		if matchlen == 0 {
			return true, branch, nil
		}
		return true, &shortNode{Key: key[:matchlen], Val: branch}, nil

	case *fullNode:
		dirty, nn, err := t.insert(n.Children[key[0]], append(prefix, key[0]), key[1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.Children[key[0]] = nn
		return true, n, nil

	case nil:
		return true, &shortNode{Key: append([]byte(nil), key...), Val: value}, nil

	case hashNode:
		rn, err := t.resolveHash(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.insert(rn, prefix, key, value)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	}
	panic(fmt.Sprintf("trie: invalid node: %T", n))
}

func (t *Trie) delete(n Node, prefix, key []byte) (bool, Node, error) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil
		}
		if matchlen == len(key) {
			return true, nil, nil
		}
		dirty, child, err := t.delete(n.Val, append(prefix, key[:len(n.Key)]...), key[len(n.Key):])
		if !dirty || err != nil {
			return false, n, err
		}
		switch child := child.(type) {
		case *shortNode:
			return true, &shortNode{Key: concatNibbles(n.Key, child.Key), Val: child.Val}, nil
		default:
			return true, &shortNode{Key: n.Key, Val: child}, nil
		}

	case *fullNode:
		dirty, nn, err := t.delete(n.Children[key[0]], append(prefix, key[0]), key[1:])
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.Children[key[0]] = nn

		if nn != nil {
			return true, n, nil
		}
		pos := -1
		for i, cld := range n.Children {
			if cld != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				cnode, err := t.resolve(n.Children[pos], append(prefix, byte(pos)))
				if err != nil {
					return false, nil, err
				}
				if cnode, ok := cnode.(*shortNode); ok {
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &shortNode{Key: k, Val: cnode.Val}, nil
				}
			}
			return true, &shortNode{Key: []byte{byte(pos)}, Val: n.Children[pos]}, nil
		}
		return true, n, nil

	case valueNode:
		return true, nil, nil

	case nil:
		return false, nil, nil

	case hashNode:
		rn, err := t.resolveHash(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.delete(rn, prefix, key)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	}
	panic(fmt.Sprintf("trie: invalid node: %T", n))
}

func concatNibbles(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func (t *Trie) resolve(n Node, prefix []byte) (Node, error) {
	if h, ok := n.(hashNode); ok {
		return t.resolveHash(h, prefix)
	}
	return n, nil
}

func (t *Trie) resolveHash(n hashNode, prefix []byte) (Node, error) {
	if t.db == nil {
		return nil, ErrMissingNode
	}
	enc, err := t.db.Node(common.BytesToHash(n))
	if err != nil {
		return nil, err
	}
	return decodeNode(enc)
}

// Hash returns the root hash of the trie without mutating the backing
// store (spec.md §4.2 `root_hash`). An empty trie hashes to
// Keccak(rlp("")), per spec.md §3/§8.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return emptyRoot
	}
	hashed, err := hashNodeOrCommit(t.root, nil)
	if err != nil {
		return emptyRoot
	}
	if h, ok := hashed.(hashNode); ok {
		return common.BytesToHash(h)
	}
	// Root encodes to < 32 bytes (a tiny trie): hash its encoding directly.
	enc := encodeForHash(hashed)
	return hashNodeDirect(enc)
}

// Commit computes the root hash and writes every newly-reachable node
// (spec.md §4.2's "write to the KV store under Keccak(rlp)") to the
// backing database, then fixes the in-memory root to its committed,
// content-addressed form so subsequent reads resolve through the db.
func (t *Trie) Commit() (common.Hash, error) {
	if t.root == nil {
		return emptyRoot, nil
	}
	hashed, err := hashNodeOrCommit(t.root, t.db)
	if err != nil {
		return common.Hash{}, err
	}
	t.root = hashed
	if h, ok := hashed.(hashNode); ok {
		return common.BytesToHash(h), nil
	}
	enc := encodeForHash(hashed)
	root := t.db.InsertBlob(enc)
	t.root = hashNode(root[:])
	return root, nil
}
