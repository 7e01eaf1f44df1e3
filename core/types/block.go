package types

import (
	"math/big"
	"sync/atomic"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/rlp"
)

// Header is a block header (spec.md §4.6 "Header"): the fields a header
// validator checks and a block processor's poststate must match.
type Header struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash // state trie root
	TxHash      common.Hash // transactions trie root
	ReceiptHash common.Hash // receipts trie root
	Bloom       common.Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       BlockNonce
}

// BlockNonce is the 8-byte PoW nonce field of a header.
type BlockNonce [8]byte

// EncodeNonce converts i to a BlockNonce.
func EncodeNonce(i uint64) BlockNonce {
	var n BlockNonce
	for j := 0; j < 8; j++ {
		n[7-j] = byte(i)
		i >>= 8
	}
	return n
}

// Uint64 returns the integer value of n.
func (n BlockNonce) Uint64() uint64 {
	var i uint64
	for j := 0; j < 8; j++ {
		i = i<<8 | uint64(n[j])
	}
	return i
}

// Hash returns Keccak256(rlp(header)), the value sealed into ParentHash of
// a header's child and used to key the header in the block tree.
func (h *Header) Hash() common.Hash {
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// EmptyBody reports whether b's body has no transactions and no uncles.
func (h *Header) EmptyBody() bool {
	return h.TxHash == EmptyRootHash && h.UncleHash == EmptyUncleHash
}

// EmptyReceipts reports whether b's receipt trie is empty.
func (h *Header) EmptyReceipts() bool {
	return h.ReceiptHash == EmptyRootHash
}

// EmptyUncleHash is the ommer-list hash of a block with no ommers:
// Keccak(rlp([])).
var EmptyUncleHash = rlpHash([]*Header{})

func rlpHash(x interface{}) common.Hash {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// Body holds the transaction and uncle-header lists carried alongside a
// Header to make up a full Block.
type Body struct {
	Transactions []*Transaction
	Uncles       []*Header
}

// Block is an immutable header plus its body, with a lazily-computed and
// cached hash (spec.md §4.6).
type Block struct {
	header       *Header
	transactions []*Transaction
	uncles       []*Header

	hash atomic.Pointer[common.Hash]
	size atomic.Uint64
}

// NewBlock assembles a Block from a header and body, deriving TxHash,
// ReceiptHash and Bloom from receipts (spec.md §4.6's "derive_sha"
// computations a block assembler must perform before sealing a header).
func NewBlock(header *Header, txs []*Transaction, uncles []*Header, receipts []*Receipt) *Block {
	b := &Block{header: CopyHeader(header)}
	if len(txs) == 0 {
		b.header.TxHash = EmptyRootHash
	} else {
		b.header.TxHash = DeriveSha(Transactions(txs))
		b.transactions = make([]*Transaction, len(txs))
		copy(b.transactions, txs)
	}
	if len(receipts) == 0 {
		b.header.ReceiptHash = EmptyRootHash
	} else {
		b.header.ReceiptHash = DeriveSha(Receipts(receipts))
		b.header.Bloom = CreateBloom(receipts)
	}
	if len(uncles) == 0 {
		b.header.UncleHash = EmptyUncleHash
	} else {
		b.header.UncleHash = rlpHash(uncles)
		b.uncles = make([]*Header, len(uncles))
		for i := range uncles {
			b.uncles[i] = CopyHeader(uncles[i])
		}
	}
	return b
}

// NewBlockWithHeader wraps header (copied) with no body, for callers that
// fill in the body afterward via WithBody.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: CopyHeader(header)}
}

// WithBody returns a new Block with the given body, sharing the header.
func (b *Block) WithBody(transactions []*Transaction, uncles []*Header) *Block {
	block := &Block{
		header:       b.header,
		transactions: make([]*Transaction, len(transactions)),
		uncles:       make([]*Header, len(uncles)),
	}
	copy(block.transactions, transactions)
	for i := range uncles {
		block.uncles[i] = CopyHeader(uncles[i])
	}
	return block
}

// CopyHeader returns a deep copy of h so callers can mutate it without
// aliasing the original (headers embed *big.Int and []byte, spec.md §4.6).
func CopyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Difficulty = new(big.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if cpy.Number = new(big.Int); h.Number != nil {
		cpy.Number.Set(h.Number)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = common.CopyBytes(h.Extra)
	}
	return &cpy
}

func (b *Block) Header() *Header             { return CopyHeader(b.header) }
func (b *Block) Number() *big.Int            { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64           { return b.header.Number.Uint64() }
func (b *Block) GasLimit() uint64            { return b.header.GasLimit }
func (b *Block) GasUsed() uint64             { return b.header.GasUsed }
func (b *Block) Difficulty() *big.Int        { return new(big.Int).Set(b.header.Difficulty) }
func (b *Block) Time() uint64                { return b.header.Time }
func (b *Block) ParentHash() common.Hash     { return b.header.ParentHash }
func (b *Block) Root() common.Hash           { return b.header.Root }
func (b *Block) TxHash() common.Hash         { return b.header.TxHash }
func (b *Block) ReceiptHash() common.Hash    { return b.header.ReceiptHash }
func (b *Block) Bloom() common.Bloom         { return b.header.Bloom }
func (b *Block) Coinbase() common.Address    { return b.header.Coinbase }
func (b *Block) Transactions() []*Transaction { return b.transactions }
func (b *Block) Uncles() []*Header           { return b.uncles }

// Hash returns the block's header hash, computed once and cached.
func (b *Block) Hash() common.Hash {
	if h := b.hash.Load(); h != nil {
		return *h
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}
