package params

import "math/big"

// Gas schedule constants (spec.md §4.4/§4.5), per the Yellow Paper's
// Frontier/Homestead/EIP-150/EIP-158/Byzantium fee schedule appendix.
const (
	GasLimitBoundDivisor uint64 = 1024
	MinGasLimit          uint64 = 5000
	MaxGasLimit          uint64 = 0x7fffffffffffffff

	MaximumExtraDataSize uint64 = 32

	ExpByteGas       uint64 = 10 // EXP cost per byte of exponent, pre-EIP-158
	ExpByteGasEIP158 uint64 = 50

	SstoreSetGas    uint64 = 20000
	SstoreResetGas  uint64 = 5000
	SstoreClearRefund uint64 = 15000
	SstoreRefundGas uint64 = 15000

	SuicideRefundGas uint64 = 24000

	// intrinsic transaction cost, spec.md §4.5
	TxGas                uint64 = 21000
	TxGasContractCreation uint64 = 53000
	TxDataZeroGas        uint64 = 4
	TxDataNonZeroGas     uint64 = 68

	MaxCodeSize = 24576 // EIP-170, active with EIP-158

	CallValueTransferGas uint64 = 9000
	CallNewAccountGas    uint64 = 25000
	CallStipend          uint64 = 2300

	CallGasEIP150          uint64 = 700 // per-call cost post EIP-150
	CallGasFrontier        uint64 = 40
	SloadGasFrontier       uint64 = 50
	SloadGasEIP150         uint64 = 200
	ExtcodeSizeGasFrontier uint64 = 20
	ExtcodeSizeGasEIP150   uint64 = 700
	ExtcodeCopyBaseFrontier uint64 = 20
	ExtcodeCopyBaseEIP150  uint64 = 700
	BalanceGasFrontier     uint64 = 20
	BalanceGasEIP150       uint64 = 400
	SelfdestructGasEIP150  uint64 = 5000

	Sha3Gas     uint64 = 30
	Sha3WordGas uint64 = 6

	MemoryGas        uint64 = 3
	QuadCoeffDiv     uint64 = 512
	CreateDataGas    uint64 = 200
	CreateGas        uint64 = 32000
	JumpdestGas      uint64 = 1
	LogGas           uint64 = 375
	LogDataGas       uint64 = 8
	LogTopicGas      uint64 = 375
	CopyGas          uint64 = 3

	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	// Precompile gas costs, Byzantium (spec.md §4.4 "Precompiles")
	EcrecoverGas     uint64 = 3000
	Sha256BaseGas    uint64 = 60
	Sha256PerWordGas uint64 = 12
	Ripemd160BaseGas    uint64 = 600
	Ripemd160PerWordGas uint64 = 120
	IdentityBaseGas    uint64 = 15
	IdentityPerWordGas uint64 = 3
	ModExpQuadCoeffDiv uint64 = 20
	Bn256AddGasByzantium      uint64 = 500
	Bn256ScalarMulGasByzantium uint64 = 40000
	Bn256PairingBaseGasByzantium uint64 = 100000
	Bn256PairingPerPointGasByzantium uint64 = 80000

	ElasticityMultiplier = 2

	StackLimit   = 1024
	CallCreateDepth = 1024
)

// Block reward schedule (spec.md §4.4, §4.6): pre-Byzantium 5 ETH, Byzantium
// 3 ETH, with 1/32 per-ommer and the ommer's own depth-dependent reward.
var (
	FrontierBlockReward  = big.NewInt(5e+18)
	ByzantiumBlockReward = big.NewInt(3e+18)
)

// DifficultyBoundDivisor and ExponentialDifficultyPeriod back the
// header-validation difficulty formula of spec.md §4.8.
var (
	DifficultyBoundDivisor = big.NewInt(2048)
	ExpDiffPeriod          = big.NewInt(100000)
	MinimumDifficulty      = big.NewInt(131072)
)
