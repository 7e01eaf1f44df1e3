package vm

import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/bn256"
	"golang.org/x/crypto/ripemd160"

	"github.com/mana-ethereum/mana-sub005/common"
	"github.com/mana-ethereum/mana-sub005/crypto"
	"github.com/mana-ethereum/mana-sub005/params"
)

// PrecompiledContract is a native contract whose behavior is defined by
// Go code rather than EVM bytecode (spec.md §4.4 "Precompiled
// contracts" 0x01-0x08).
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompiledContractsByzantium is the precompile set active from
// Byzantium onward (adds bn256 pairing-check support for zk-SNARK
// verification, EIP-196/197/198).
var PrecompiledContractsByzantium = map[common.Address]PrecompiledContract{
	common.BytesToAddress([]byte{1}): &ecrecover{},
	common.BytesToAddress([]byte{2}): &sha256hash{},
	common.BytesToAddress([]byte{3}): &ripemd160hash{},
	common.BytesToAddress([]byte{4}): &dataCopy{},
	common.BytesToAddress([]byte{5}): &bigModExp{},
	common.BytesToAddress([]byte{6}): &bn256AddByzantium{},
	common.BytesToAddress([]byte{7}): &bn256ScalarMulByzantium{},
	common.BytesToAddress([]byte{8}): &bn256PairingByzantium{},
}

// PrecompiledContractsHomestead is the Frontier/Homestead precompile set
// (1-4 only; 5-8 are later additions).
var PrecompiledContractsHomestead = map[common.Address]PrecompiledContract{
	common.BytesToAddress([]byte{1}): &ecrecover{},
	common.BytesToAddress([]byte{2}): &sha256hash{},
	common.BytesToAddress([]byte{3}): &ripemd160hash{},
	common.BytesToAddress([]byte{4}): &dataCopy{},
}

// ActivePrecompiles returns the precompile set active under rules.
func ActivePrecompiles(rules params.Rules) map[common.Address]PrecompiledContract {
	if rules.IsByzantium {
		return PrecompiledContractsByzantium
	}
	return PrecompiledContractsHomestead
}

// RunPrecompiledContract charges gas and executes p against input.
func RunPrecompiledContract(p PrecompiledContract, input []byte, suppliedGas uint64) (ret []byte, remainingGas uint64, err error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, ErrOutOfGas
	}
	suppliedGas -= gasCost
	out, err := p.Run(input)
	return out, suppliedGas, err
}

func wordsFor(n int) uint64 { return uint64((n + 31) / 32) }

// --- 0x01: ECRECOVER ---------------------------------------------------

type ecrecover struct{}

func (c *ecrecover) RequiredGas(input []byte) uint64 { return params.EcrecoverGas }

func (c *ecrecover) Run(input []byte) ([]byte, error) {
	const inputLen = 128
	input = common.RightPadBytes(input, inputLen)

	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])
	v := input[63] - 27

	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return nil, nil
	}
	sig := make([]byte, 65)
	copy(sig[0:32], input[64:96])
	copy(sig[32:64], input[96:128])
	sig[64] = v

	pub, err := crypto.Ecrecover(input[:32], sig)
	if err != nil {
		return nil, nil
	}
	addrHash := crypto.Keccak256(pub[1:])[12:]
	out := make([]byte, 32)
	copy(out[12:], addrHash)
	return out, nil
}

// --- 0x02: SHA2-256 ------------------------------------------------------

type sha256hash struct{}

func (c *sha256hash) RequiredGas(input []byte) uint64 {
	return wordsFor(len(input))*params.Sha256PerWordGas + params.Sha256BaseGas
}

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// --- 0x03: RIPEMD-160 ----------------------------------------------------

type ripemd160hash struct{}

func (c *ripemd160hash) RequiredGas(input []byte) uint64 {
	return wordsFor(len(input))*params.Ripemd160PerWordGas + params.Ripemd160BaseGas
}

func (c *ripemd160hash) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	out := make([]byte, 32)
	copy(out[32-h.Size():], h.Sum(nil))
	return out, nil
}

// --- 0x04: IDENTITY --------------------------------------------------------

type dataCopy struct{}

func (c *dataCopy) RequiredGas(input []byte) uint64 {
	return wordsFor(len(input))*params.IdentityPerWordGas + params.IdentityBaseGas
}

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// --- 0x05: MODEXP (EIP-198, Byzantium) --------------------------------------

type bigModExp struct{}

func (c *bigModExp) RequiredGas(input []byte) uint64 {
	input = common.RightPadBytes(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32])
	expLen := new(big.Int).SetBytes(input[32:64])
	modLen := new(big.Int).SetBytes(input[64:96])

	if !baseLen.IsUint64() || !expLen.IsUint64() || !modLen.IsUint64() {
		return ^uint64(0)
	}
	maxLen := baseLen.Uint64()
	if modLen.Uint64() > maxLen {
		maxLen = modLen.Uint64()
	}
	words := wordsFor(int(maxLen))
	complexity := words * words

	adjExpLen := adjustedExpLen(expLen.Uint64(), input, baseLen.Uint64())
	if adjExpLen < 1 {
		adjExpLen = 1
	}
	gas := complexity * adjExpLen / params.ModExpQuadCoeffDiv
	if gas < 200 {
		gas = 200
	}
	return gas
}

func adjustedExpLen(expLen uint64, input []byte, baseLen uint64) uint64 {
	if expLen <= 32 {
		start := 96 + baseLen
		if start >= uint64(len(input)) {
			return 0
		}
		end := start + expLen
		if end > uint64(len(input)) {
			end = uint64(len(input))
		}
		e := new(big.Int).SetBytes(input[start:end])
		return uint64(e.BitLen())
	}
	return 8 * (expLen - 32)
}

func (c *bigModExp) Run(input []byte) ([]byte, error) {
	input = common.RightPadBytes(input, 96)
	baseLen := new(big.Int).SetBytes(input[0:32]).Uint64()
	expLen := new(big.Int).SetBytes(input[32:64]).Uint64()
	modLen := new(big.Int).SetBytes(input[64:96]).Uint64()

	input = input[96:]
	if uint64(len(input)) < baseLen {
		input = common.RightPadBytes(input, int(baseLen))
	}
	base := new(big.Int).SetBytes(getData(input, 0, baseLen))

	rest := getData(input, baseLen, uint64(len(input)))
	exp := new(big.Int).SetBytes(getData(rest, 0, expLen))

	rest2 := getData(rest, expLen, uint64(len(rest)))
	mod := new(big.Int).SetBytes(getData(rest2, 0, modLen))

	if mod.Sign() == 0 {
		return make([]byte, modLen), nil
	}
	result := new(big.Int).Exp(base, exp, mod)
	out := make([]byte, modLen)
	result.FillBytes(out)
	return out, nil
}

// --- 0x06-0x08: bn256 (alt_bn128) pairing family, Byzantium ----------------

type bn256AddByzantium struct{}

func (c *bn256AddByzantium) RequiredGas(input []byte) uint64 { return params.Bn256AddGasByzantium }

func (c *bn256AddByzantium) Run(input []byte) ([]byte, error) {
	input = common.RightPadBytes(input, 128)
	x, err := newCurvePoint(input[0:64])
	if err != nil {
		return nil, err
	}
	y, err := newCurvePoint(input[64:128])
	if err != nil {
		return nil, err
	}
	res := new(bn256.G1).Add(x, y)
	return res.Marshal(), nil
}

type bn256ScalarMulByzantium struct{}

func (c *bn256ScalarMulByzantium) RequiredGas(input []byte) uint64 {
	return params.Bn256ScalarMulGasByzantium
}

func (c *bn256ScalarMulByzantium) Run(input []byte) ([]byte, error) {
	input = common.RightPadBytes(input, 96)
	p, err := newCurvePoint(input[0:64])
	if err != nil {
		return nil, err
	}
	res := new(bn256.G1).ScalarMult(p, new(big.Int).SetBytes(input[64:96]))
	return res.Marshal(), nil
}

type bn256PairingByzantium struct{}

func (c *bn256PairingByzantium) RequiredGas(input []byte) uint64 {
	return params.Bn256PairingBaseGasByzantium +
		uint64(len(input)/192)*params.Bn256PairingPerPointGasByzantium
}

func (c *bn256PairingByzantium) Run(input []byte) ([]byte, error) {
	if len(input)%192 > 0 {
		return nil, errBadPairingInput
	}
	var (
		cs []*bn256.G1
		ts []*bn256.G2
	)
	for i := 0; i < len(input); i += 192 {
		c, err := newCurvePoint(input[i : i+64])
		if err != nil {
			return nil, err
		}
		t, err := newTwistPoint(input[i+64 : i+192])
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
		ts = append(ts, t)
	}
	ok := len(cs) == 0 || bn256.PairingCheck(cs, ts)
	out := make([]byte, 32)
	if ok {
		out[31] = 1
	}
	return out, nil
}

func newCurvePoint(blob []byte) (*bn256.G1, error) {
	p := new(bn256.G1)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, errBadPairingInput
	}
	return p, nil
}

func newTwistPoint(blob []byte) (*bn256.G2, error) {
	p := new(bn256.G2)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, errBadPairingInput
	}
	return p, nil
}
