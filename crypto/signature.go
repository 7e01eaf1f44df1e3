package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// secp256k1Curve/N/halfN back S256(); defined here, pure Go, no cgo — see
// DESIGN.md for why this replaces go-ethereum's cgo libsecp256k1 wrapper.
var (
	secp256k1Curve = btcec.S256()
	secp256k1N     = secp256k1Curve.Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

const (
	// SignatureLength is the length, in bytes, of a recoverable ECDSA
	// signature: 32 (r) + 32 (s) + 1 (recovery id).
	SignatureLength = 64 + 1
	// RecoveryIDOffset is the byte offset of the recovery id within a
	// signature.
	RecoveryIDOffset = 64
)

// Sign computes an ECDSA signature over a 32-byte digest using the given
// private key, returning a 65-byte [R || S || V] signature with V in {0,1}.
func Sign(digestHash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(digestHash) != DigestLength {
		return nil, fmt.Errorf("crypto: hash is required to be exactly %d bytes (%d)", DigestLength, len(digestHash))
	}
	if prv.Curve != S256() {
		return nil, errors.New("crypto: private key curve is not secp256k1")
	}
	var priv btcec.PrivateKey
	if overflow := priv.Key.SetByteSlice(prv.D.Bytes()); overflow || priv.Key.IsZero() {
		return nil, errors.New("crypto: invalid private key")
	}
	sig, err := btcecSignCompact(&priv, digestHash)
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// btcecSignCompact signs digestHash and returns [R || S || V].
func btcecSignCompact(priv *btcec.PrivateKey, digestHash []byte) ([]byte, error) {
	sig := btcecdsa.SignCompact(priv, digestHash, false)
	// btcec's compact format is [V || R || S] with V = 27 + recid (+4 if
	// compressed); rotate into Ethereum's [R || S || V] with V in {0,1}.
	v := sig[0]
	if v >= 31 {
		v -= 4
	}
	v -= 27
	out := make([]byte, SignatureLength)
	copy(out, sig[1:])
	out[64] = v
	return out, nil
}

// Ecrecover returns the uncompressed public key (65 bytes, 0x04 prefix)
// that produced the given signature over digestHash.
func Ecrecover(digestHash, sig []byte) ([]byte, error) {
	pub, err := SigToPub(digestHash, sig)
	if err != nil {
		return nil, err
	}
	return elliptic.Marshal(S256(), pub.X, pub.Y), nil
}

// SigToPub returns the public key that produced the given signature.
func SigToPub(digestHash, sig []byte) (*ecdsa.PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, errors.New("crypto: invalid signature length")
	}
	if sig[RecoveryIDOffset] > 3 {
		return nil, errors.New("crypto: invalid signature recovery id")
	}
	btcsig := make([]byte, SignatureLength)
	btcsig[0] = sig[RecoveryIDOffset] + 27
	copy(btcsig[1:], sig[:64])

	pub, _, err := btcecdsa.RecoverCompact(btcsig, digestHash)
	if err != nil {
		return nil, err
	}
	return pub.ToECDSA(), nil
}

// VerifySignature checks that the given public key produced signature over
// digestHash. pubkey must be 33-byte compressed or 65-byte uncompressed.
func VerifySignature(pubkey, digestHash, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:64]); overflow {
		return false
	}
	pub, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	sig := btcecdsa.NewSignature(&r, &s)
	return sig.Verify(digestHash, pub)
}

// ValidateSignatureValues verifies whether the signature values are valid
// with the given chain rules. The v value is assumed to be either 0 or 1.
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	// Homestead (EIP-2) restricts s to the lower half of the curve order
	// to remove transaction malleability.
	if homestead && s.Cmp(secp256k1HalfN) > 0 {
		return false
	}
	return v == 0 || v == 1
}

// CompressPubkey encodes a public key to the 33-byte compressed form.
func CompressPubkey(pubkey *ecdsa.PublicKey) []byte {
	pub, err := btcec.ParsePubKey(elliptic.Marshal(S256(), pubkey.X, pubkey.Y))
	if err != nil {
		return nil
	}
	return pub.SerializeCompressed()
}
