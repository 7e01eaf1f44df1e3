// Package crypto implements the Keccak-256 hashing primitive and the
// secp256k1 signature operations spec.md §3/§4.5 build transaction signing
// and address derivation on top of.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/rlp"
	"golang.org/x/crypto/sha3"
)

// DigestLength is the length in bytes of a Keccak-256 digest.
const DigestLength = 32

// Keccak256 computes and returns the Keccak-256 hash of the concatenation
// of the input byte slices.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash computes and returns the Keccak-256 hash of the
// concatenated inputs as a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.Sum(h[:0])
	return h
}

// Keccak512 computes and returns the Keccak-512 hash of the concatenated
// inputs.
func Keccak512(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak512()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// CreateAddress computes the contract address produced by the CREATE
// opcode: Keccak(rlp([sender, nonce]))[12:] (spec.md §4.4).
func CreateAddress(b common.Address, nonce uint64) common.Address {
	data := rlp.EncodeList(rlp.EncodeBytes(b.Bytes()), rlp.EncodeUint64(nonce))
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 computes the contract address produced by the CREATE2
// opcode: Keccak(0xff ++ sender ++ salt ++ Keccak(init_code))[12:].
func CreateAddress2(b common.Address, salt [32]byte, inithash []byte) common.Address {
	return common.BytesToAddress(Keccak256([]byte{0xff}, b.Bytes(), salt[:], inithash)[12:])
}

// S256 returns the secp256k1 curve, matching go-ethereum's crypto.S256().
func S256() elliptic.Curve { return secp256k1Curve }

var errInvalidPubkey = errors.New("crypto: invalid public key")

// PubkeyToAddress derives the 20-byte Ethereum address from a public key:
// the low 20 bytes of Keccak256(X||Y).
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	pubBytes := elliptic.Marshal(S256(), p.X, p.Y)
	return common.BytesToAddress(Keccak256(pubBytes[1:])[12:])
}

// GenerateKey generates a new secp256k1 private key using the given
// randomness source.
func GenerateKey(rand io.Reader) (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(S256(), rand)
}

// ToECDSA converts a 32-byte big-endian private key into an *ecdsa.PrivateKey.
func ToECDSA(d []byte) (*ecdsa.PrivateKey, error) {
	if len(d) != 32 {
		return nil, fmt.Errorf("crypto: invalid private key length %d", len(d))
	}
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = S256()
	priv.D = new(big.Int).SetBytes(d)
	if priv.D.Cmp(secp256k1N) >= 0 || priv.D.Sign() == 0 {
		return nil, errors.New("crypto: invalid private key, out of range")
	}
	priv.PublicKey.X, priv.PublicKey.Y = S256().ScalarBaseMult(d)
	if priv.PublicKey.X == nil {
		return nil, errInvalidPubkey
	}
	return priv, nil
}

// FromECDSA exports a private key into a 32-byte big-endian form.
func FromECDSA(priv *ecdsa.PrivateKey) []byte {
	if priv == nil {
		return nil
	}
	return common.LeftPadBytes(priv.D.Bytes(), 32)
}
