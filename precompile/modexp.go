package precompile

import (
	"math/big"
)

// modexpContract implements precompile 0x05 (EIP-2565 pricing). lengthLimit
// of 0 means "no cap" (Berlin profile); a nonzero value is the per-field
// byte-length cap used by the Restricted profile.
type modexpContract struct {
	lengthLimit int
}

func modexpLens(input []byte) (baseLen, expLen, modLen int) {
	var padded [96]byte
	copy(padded[:], input)
	baseLen = int(new(big.Int).SetBytes(padded[0:32]).Uint64())
	expLen = int(new(big.Int).SetBytes(padded[32:64]).Uint64())
	modLen = int(new(big.Int).SetBytes(padded[64:96]).Uint64())
	return
}

// RequiredGas implements the EIP-2565 gas schedule exactly as spec §4.1
// describes it.
func (c *modexpContract) RequiredGas(input []byte) uint64 {
	baseLen, expLen, modLen := modexpLens(input)

	var expHead big.Int
	if len(input) > 96 {
		rest := input[96:]
		if len(rest) > baseLen {
			rest = rest[baseLen:]
			head := expLen
			if head > 32 {
				head = 32
			}
			if head > len(rest) {
				head = len(rest)
			}
			expHead.SetBytes(rest[:head])
		}
	}

	msb := 0
	if bits := expHead.BitLen(); bits > 0 {
		msb = bits - 1
	}

	adjExpLen := new(big.Int)
	if expLen > 32 {
		adjExpLen.SetUint64(uint64(expLen - 32))
		adjExpLen.Mul(adjExpLen, big.NewInt(8))
	}
	adjExpLen.Add(adjExpLen, big.NewInt(int64(msb)))
	if adjExpLen.Sign() == 0 {
		adjExpLen.SetInt64(1)
	}

	x := baseLen
	if modLen > x {
		x = modLen
	}
	words := big.NewInt(int64((x + 7) / 8))
	gas := new(big.Int).Mul(words, words)
	gas.Mul(gas, adjExpLen)
	gas.Div(gas, big.NewInt(3))

	if gas.BitLen() > 64 {
		return ^uint64(0)
	}
	if gas.Cmp(big.NewInt(200)) < 0 {
		return 200
	}
	return gas.Uint64()
}

// Run implements the modexp operation per spec §4.1: zero-extend the three
// windows to their declared lengths, compute base^exp mod modulus, and
// left-zero-pad the big-endian result to exactly modLen bytes.
func (c *modexpContract) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen := modexpLens(input)

	if c.lengthLimit > 0 && (baseLen > c.lengthLimit || expLen > c.lengthLimit || modLen > c.lengthLimit) {
		return nil, inputError("input length exceed limitation")
	}

	if baseLen == 0 && modLen == 0 {
		return []byte{}, nil
	}

	body := []byte{}
	if len(input) > 96 {
		body = input[96:]
	}
	getWindow := func(offset, length int) []byte {
		out := make([]byte, length)
		if offset >= len(body) {
			return out
		}
		end := offset + length
		if end > len(body) {
			end = len(body)
		}
		copy(out, body[offset:end])
		return out
	}

	base := new(big.Int).SetBytes(getWindow(0, baseLen))
	exp := new(big.Int).SetBytes(getWindow(baseLen, expLen))
	mod := new(big.Int).SetBytes(getWindow(baseLen+expLen, modLen))

	out := make([]byte, modLen)
	if mod.Sign() == 0 || mod.Cmp(big.NewInt(1)) == 0 {
		return out, nil
	}

	result := new(big.Int).Exp(base, exp, mod)
	resBytes := result.Bytes()
	copy(out[modLen-len(resBytes):], resBytes)
	return out, nil
}
