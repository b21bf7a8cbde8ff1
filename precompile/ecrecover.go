package precompile

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const ecrecoverGas = 3000

// secp256k1N is the order of the secp256k1 curve group, the same constant
// spec §4.1 names explicitly.
var secp256k1N = uint256.MustFromDecimal(
	"115792089237316195423570985008687907852837564279074904382605163141518161494337",
)

type ecrecoverContract struct{}

func (ecrecoverContract) RequiredGas([]byte) uint64 { return ecrecoverGas }

// Run implements the normative ecrecover algorithm from spec §4.1. On any
// malformed input it returns an empty (not an error) result: gas is still
// charged, the precompile "never fails" from the EVM's perspective.
func (ecrecoverContract) Run(input []byte) ([]byte, error) {
	var padded [128]byte
	copy(padded[:], input)

	// bytes 32..63 of the "v" word must be all zero.
	for _, b := range padded[32:63] {
		if b != 0 {
			return nil, nil
		}
	}

	v := padded[63]
	r := new(uint256.Int).SetBytes(padded[64:96])
	s := new(uint256.Int).SetBytes(padded[96:128])

	if r.IsZero() || s.IsZero() {
		return nil, nil
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return nil, nil
	}
	if v != 27 && v != 28 {
		return nil, nil
	}

	sig := make([]byte, 65)
	copy(sig[0:32], padded[64:96])
	copy(sig[32:64], padded[96:128])
	sig[64] = v - 27

	pubkey, err := crypto.Ecrecover(padded[0:32], sig)
	if err != nil {
		return nil, nil
	}

	addr := crypto.Keccak256(pubkey[1:])
	copy(addr[:12], make([]byte, 12))
	return addr, nil
}
