package precompile

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 was dropped from stdlib; this is the ecosystem-standard replacement
)

type sha256Contract struct{}

func (sha256Contract) RequiredGas(input []byte) uint64 {
	return 60 + 12*ceilWords(len(input))
}

func (sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

type identityContract struct{}

func (identityContract) RequiredGas(input []byte) uint64 {
	return 15 + 3*ceilWords(len(input))
}

func (identityContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

type ripemd160Contract struct{}

func (ripemd160Contract) RequiredGas(input []byte) uint64 {
	return 600 + 120*ceilWords(len(input))
}

func (ripemd160Contract) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	digest := h.Sum(nil)

	out := make([]byte, 32)
	copy(out[32-len(digest):], digest)
	return out, nil
}
