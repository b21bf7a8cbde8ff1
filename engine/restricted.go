package engine

import (
	"math/big"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/precompile"
)

// Restricted is the scroll-like profile: same fee market and header-derivation
// rules as Ethereum, but the Restricted precompile set (2/3/9 disabled, 5/8
// capped). Grounded on precompile.rs's PrecompileSet::scroll() paired with
// engines.rs's Ethereum header/fee logic, which original_source does not
// fork per profile.
type Restricted struct {
	*Ethereum
}

// NewRestricted builds the scroll-like engine for the given chain id.
func NewRestricted(chainID *big.Int, signer chaintypes.Signer) *Restricted {
	return &Restricted{Ethereum: NewEthereum(chainID, signer)}
}

func (r *Restricted) Precompile() *precompile.Registry { return precompile.Restricted() }

var _ Engine = (*Restricted)(nil)
