package state

import (
	"math/big"
	"testing"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/ethdb/memorydb"
	"github.com/mana-ethereum/mana-sub005/trie"
)

func newTestStateDB(t *testing.T) *StateDB {
	t.Helper()
	db, err := New(common.Hash{}, trie.NewDatabase(memorydb.New()))
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestAddBalanceSnapshotRevert(t *testing.T) {
	db := newTestStateDB(t)
	addr := common.HexToAddress("0x01")

	db.AddBalance(addr, big.NewInt(100))
	snap := db.Snapshot()
	db.AddBalance(addr, big.NewInt(50))
	if got := db.GetBalance(addr); got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("balance = %v, want 150", got)
	}
	db.RevertToSnapshot(snap)
	if got := db.GetBalance(addr); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("after revert balance = %v, want 100", got)
	}
}

func TestStorageRoundTripAfterCommit(t *testing.T) {
	db := newTestStateDB(t)
	addr := common.HexToAddress("0x02")
	db.AddBalance(addr, big.NewInt(1))

	key := common.HexToHash("0x01")
	val := common.HexToHash("0x2a")
	db.SetState(addr, key, val)

	root, err := db.Commit(false)
	if err != nil {
		t.Fatal(err)
	}

	db2, err := New(root, db.db)
	if err != nil {
		t.Fatal(err)
	}
	if got := db2.GetState(addr, key); got != val {
		t.Fatalf("got %x want %x", got, val)
	}
}

func TestEmptyAccountClearedOnFinalise(t *testing.T) {
	db := newTestStateDB(t)
	addr := common.HexToAddress("0x03")
	db.AddBalance(addr, big.NewInt(5))
	db.SubBalance(addr, big.NewInt(5))
	db.Finalise(true)
	if !db.Empty(addr) {
		t.Fatalf("expected account to be empty after balance round-trips to zero")
	}
}
