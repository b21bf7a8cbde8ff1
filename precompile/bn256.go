package precompile

import (
	"math/big"

	bn256 "github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
)

const (
	addInputLen    = 128
	mulInputLen    = 128
	pairElementLen = 192
)

// bn254FieldModulus is the alt_bn128 base field prime, used to validate each
// coordinate is in-range before the point is built.
var bn254FieldModulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088696311157297823662689037894645226208583", 10,
)

func readG1(input []byte, pos int) (*bn256.G1, error) {
	var buf [64]byte
	copy(buf[:], input[pos:pos+64])
	p, err := new(bn256.G1).Unmarshal(buf[:])
	if err != nil {
		return nil, inputError("invalid point on G1")
	}
	return p, nil
}

type bn256AddContract struct{}

func (bn256AddContract) RequiredGas([]byte) uint64 { return 150 }

// Run implements precompile 0x06 per spec §4.1: zero-pad input to 128 bytes;
// an invalid point yields the zero output rather than an error.
func (bn256AddContract) Run(input []byte) ([]byte, error) {
	padded := make([]byte, addInputLen)
	copy(padded, input)

	out := make([]byte, 64)
	p1, err1 := readG1(padded, 0)
	p2, err2 := readG1(padded, 64)
	if err1 != nil || err2 != nil {
		return out, nil
	}
	sum := new(bn256.G1).Add(p1, p2)
	copy(out, sum.Marshal())
	return out, nil
}

type bn256MulContract struct{}

func (bn256MulContract) RequiredGas([]byte) uint64 { return 6000 }

// Run implements precompile 0x07 per spec §4.1: zero-pad input to 128 bytes;
// an invalid point yields the zero output.
func (bn256MulContract) Run(input []byte) ([]byte, error) {
	padded := make([]byte, mulInputLen)
	copy(padded, input)

	out := make([]byte, 64)
	p, err := readG1(padded, 0)
	if err != nil {
		return out, nil
	}
	scalar := new(big.Int).SetBytes(padded[64:96])
	res := new(bn256.G1).ScalarMult(p, scalar)
	copy(out, res.Marshal())
	return out, nil
}

type bn256PairingContract struct {
	maxPairs int
}

func (c *bn256PairingContract) RequiredGas(input []byte) uint64 {
	return 45000 + uint64(len(input)/pairElementLen)*34000
}

// Run implements precompile 0x08 per spec §4.1: the input must be a
// concatenation of 192-byte (G1, G2) pairs. Empty input succeeds trivially.
func (c *bn256PairingContract) Run(input []byte) ([]byte, error) {
	if c.maxPairs > 0 && len(input) > c.maxPairs*pairElementLen {
		return nil, inputError("bad elliptic curve pairing size, the input num exceed limitation")
	}
	if len(input)%pairElementLen != 0 {
		return nil, inputError("bad elliptic curve pairing size")
	}

	out := make([]byte, 32)
	if len(input) == 0 {
		out[31] = 1
		return out, nil
	}

	elements := len(input) / pairElementLen
	g1s := make([]*bn256.G1, elements)
	g2s := make([]*bn256.G2, elements)
	for i := 0; i < elements; i++ {
		off := i * pairElementLen
		if err := checkFieldElement(input[off : off+32]); err != nil {
			return nil, inputError("Invalid a argument x coordinate")
		}
		if err := checkFieldElement(input[off+32 : off+64]); err != nil {
			return nil, inputError("Invalid a argument y coordinate")
		}
		if err := checkFieldElement(input[off+64 : off+96]); err != nil {
			return nil, inputError("Invalid b argument imaginary coeff y coordinate")
		}
		if err := checkFieldElement(input[off+96 : off+128]); err != nil {
			return nil, inputError("Invalid b argument imaginary coeff x coordinate")
		}
		if err := checkFieldElement(input[off+128 : off+160]); err != nil {
			return nil, inputError("Invalid b argument real coeff y coordinate")
		}
		if err := checkFieldElement(input[off+160 : off+192]); err != nil {
			return nil, inputError("Invalid b argument real coeff x coordinate")
		}

		g1, err := new(bn256.G1).Unmarshal(input[off : off+64])
		if err != nil {
			return nil, inputError("Invalid a argument - not on curve")
		}
		g2, err := new(bn256.G2).Unmarshal(input[off+64 : off+192])
		if err != nil {
			return nil, inputError("Invalid b argument - not on curve")
		}
		g1s[i] = g1
		g2s[i] = g2
	}

	if bn256.PairingCheck(g1s, g2s) {
		out[31] = 1
	}
	return out, nil
}

func checkFieldElement(b []byte) error {
	v := new(big.Int).SetBytes(b)
	if v.Cmp(bn254FieldModulus) >= 0 {
		return inputError("field element not a member")
	}
	return nil
}
