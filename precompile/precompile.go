// Package precompile implements the native Ethereum precompiled contracts at
// addresses 0x01..0x09 and the registry that dispatches to them, plus the two
// deployment profiles this engine supports: Berlin (all nine active with
// standard semantics) and Restricted (2/3/9 disabled, 5/8 length-capped).
package precompile

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotSupported is returned by the registry when no precompile is
// registered at the requested address.
var ErrNotSupported = errors.New("precompile: not supported")

// ErrDisabled is the Fatal failure a Restricted-profile stub precompile
// returns instead of running.
var ErrDisabled = errors.New("precompile: DISABLED")

// InputError reports a malformed or semantically invalid precompile input.
// It corresponds to the Rust source's PrecompileFailure::Error variant.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func inputError(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// Contract is a single precompiled contract: two pure operations, gas and
// execution, dispatched in that order by the registry.
type Contract interface {
	// RequiredGas computes the gas charge for the given input. Never fails.
	RequiredGas(input []byte) uint64
	// Run executes the contract against the given input. Called only after
	// RequiredGas has been successfully charged by the host.
	Run(input []byte) ([]byte, error)
}

// Registry maps a 20-byte address (last byte 0x01..0x09, others zero) to its
// Contract. Immutable after construction; safe to share read-only across
// builders (spec §3 "Ownership").
type Registry struct {
	contracts map[common.Address]Contract
}

// Address returns the canonical precompile address for index 1..9.
func Address(index byte) common.Address {
	var addr common.Address
	addr[len(addr)-1] = index
	return addr
}

func newRegistry() *Registry {
	return &Registry{contracts: make(map[common.Address]Contract, 9)}
}

func (r *Registry) set(index byte, c Contract) {
	r.contracts[Address(index)] = c
}

// Lookup returns the contract registered at addr, or (nil, false).
func (r *Registry) Lookup(addr common.Address) (Contract, bool) {
	c, ok := r.contracts[addr]
	return c, ok
}

// Addresses returns every registered precompile address.
func (r *Registry) Addresses() []common.Address {
	out := make([]common.Address, 0, len(r.contracts))
	for a := range r.contracts {
		out = append(out, a)
	}
	return out
}

// Run charges RequiredGas via chargeGas then, only if that succeeds, invokes
// the precompile. Matches spec §4.1's dispatch order exactly: "the host
// first charges required_gas, then runs. If gas recording fails, the
// precompile is not invoked."
func (r *Registry) Run(addr common.Address, input []byte, chargeGas func(uint64) error) ([]byte, error) {
	c, ok := r.contracts[addr]
	if !ok {
		return nil, ErrNotSupported
	}
	gas := c.RequiredGas(input)
	if err := chargeGas(gas); err != nil {
		return nil, err
	}
	return c.Run(input)
}

// Berlin returns the mainnet-like profile: all nine precompiles active with
// standard semantics.
func Berlin() *Registry {
	r := newRegistry()
	r.set(1, ecrecoverContract{})
	r.set(2, sha256Contract{})
	r.set(3, ripemd160Contract{})
	r.set(4, identityContract{})
	r.set(5, &modexpContract{lengthLimit: 0})
	r.set(6, bn256AddContract{})
	r.set(7, bn256MulContract{})
	r.set(8, &bn256PairingContract{maxPairs: 0})
	r.set(9, blake2FContract{})
	return r
}

// Restricted returns the scroll-like profile: indices 2, 3 and 9 are
// disabled, 5 carries a 32-byte length cap and 8 is capped to 4 pairs.
func Restricted() *Registry {
	r := newRegistry()
	r.set(1, ecrecoverContract{})
	r.set(2, disabledContract{})
	r.set(3, disabledContract{})
	r.set(4, identityContract{})
	r.set(5, &modexpContract{lengthLimit: 32})
	r.set(6, bn256AddContract{})
	r.set(7, bn256MulContract{})
	r.set(8, &bn256PairingContract{maxPairs: 4})
	r.set(9, disabledContract{})
	return r
}

// disabledContract is the Restricted-profile stub for indices 2, 3 and 9:
// charges a large flat gas amount and always fails fatally.
type disabledContract struct{}

func (disabledContract) RequiredGas([]byte) uint64 { return 1_000_000_000 }
func (disabledContract) Run([]byte) ([]byte, error) { return nil, ErrDisabled }

func ceilWords(n int) uint64 {
	return uint64((n + 31) / 32)
}
