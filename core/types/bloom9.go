package types

import (
	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
)

// bloom9 sets the three bits Keccak256(data) selects in a 2048-bit bloom
// filter, the construction spec.md §4.4 "Logging"/§4.6 describes for a
// block's log bloom: for each of the first three 16-bit chunks of the
// hash (taken 11 bits at a time), set bit (chunk mod 2048).
func bloom9(b *common.Bloom, data []byte) {
	hash := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bit := (uint(hash[i+1]) + (uint(hash[i]) << 8)) & 0x7ff
		b[BloomByteLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// BloomByteLength mirrors common.BloomByteLength for readability within
// this package.
const BloomByteLength = common.BloomByteLength

// LogsBloom returns the bloom filter covering every log's address and
// topics.
func LogsBloom(logs []*Log) common.Bloom {
	var bin common.Bloom
	for _, log := range logs {
		bloom9(&bin, log.Address.Bytes())
		for _, topic := range log.Topics {
			bloom9(&bin, topic.Bytes())
		}
	}
	return bin
}

// CreateBloom aggregates the bloom filters of every receipt in a block,
// the value stored in Header.Bloom (spec.md §4.6).
func CreateBloom(receipts []*Receipt) common.Bloom {
	var bin common.Bloom
	for _, receipt := range receipts {
		for _, log := range receipt.Logs {
			bloom9(&bin, log.Address.Bytes())
			for _, topic := range log.Topics {
				bloom9(&bin, topic.Bytes())
			}
		}
	}
	return bin
}

// BloomLookup reports whether topic might be present given bin; false
// negatives are impossible, false positives are expected (it is a bloom
// filter).
func BloomLookup(bin common.Bloom, topic common.Hash) bool {
	var test common.Bloom
	bloom9(&test, topic.Bytes())
	for i := range test {
		if test[i]&bin[i] != test[i] {
			return false
		}
	}
	return true
}
