package trie

import (
	"bytes"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
)

func newEmpty(t *testing.T) *Trie {
	t.Helper()
	tr, err := New(NewDatabase(memorydb.New()), common.Hash{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestEmptyTrieHash(t *testing.T) {
	tr := newEmpty(t)
	if got := tr.Hash(); got != emptyRoot {
		t.Errorf("empty trie hash = %x, want %x", got, emptyRoot)
	}
}

func TestGetMissingKey(t *testing.T) {
	tr := newEmpty(t)
	v, err := tr.Get([]byte("nonexistent"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Errorf("Get on missing key = %v, want nil", v)
	}
}

func TestUpdateAndGet(t *testing.T) {
	tr := newEmpty(t)
	if err := tr.Update([]byte{0x01, 0x02}, []byte("hello")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := tr.Get([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("Get = %q, want %q", got, "hello")
	}
}

// TestSingleEntryRootHash verifies the single-key-value root hash used as
// the canonical Ethereum MPT test vector.
func TestSingleEntryRootHash(t *testing.T) {
	tr := newEmpty(t)
	if err := tr.Update([]byte{0x01, 0x02}, []byte("hello")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := common.HexToHash("0x4962ce495ec01724aef8a9496785c8a7445356cff65bc8f20e73d0fc1c4af582")
	if got := tr.Hash(); got != want {
		t.Errorf("root hash = %x, want %x", got, want)
	}
}

func TestUpdateOverwritesExistingKey(t *testing.T) {
	tr := newEmpty(t)
	if err := tr.Update([]byte("key"), []byte("value1")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tr.Update([]byte("key"), []byte("value2")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := tr.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("value2")) {
		t.Errorf("Get = %q, want %q", got, "value2")
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	tr := newEmpty(t)
	if err := tr.Update([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := tr.Update([]byte("key"), nil); err != nil {
		t.Fatalf("delete via Update: %v", err)
	}
	got, err := tr.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get after delete = %v, want nil", got)
	}
	if h := tr.Hash(); h != emptyRoot {
		t.Errorf("hash after deleting sole entry = %x, want empty root %x", h, emptyRoot)
	}
}

func TestCommitPersistsAcrossReopen(t *testing.T) {
	db := NewDatabase(memorydb.New())
	tr, err := New(db, common.Hash{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entries := map[string]string{
		"do":           "verb",
		"dog":          "puppy",
		"dogglesworth": "cat",
	}
	for k, v := range entries {
		if err := tr.Update([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Update(%q): %v", k, err)
		}
	}
	root, err := tr.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reopened, err := New(db, root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for k, v := range entries {
		got, err := reopened.Get([]byte(k))
		if err != nil {
			t.Fatalf("Get(%q) after reopen: %v", k, err)
		}
		if !bytes.Equal(got, []byte(v)) {
			t.Errorf("Get(%q) after reopen = %q, want %q", k, got, v)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	tr := newEmpty(t)
	if err := tr.Update([]byte("key"), []byte("orig")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	cp := tr.Copy()
	if err := cp.Update([]byte("key"), []byte("changed")); err != nil {
		t.Fatalf("Update on copy: %v", err)
	}

	orig, err := tr.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get on original: %v", err)
	}
	if !bytes.Equal(orig, []byte("orig")) {
		t.Errorf("original trie mutated by copy's Update: got %q", orig)
	}
}
