package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PseudoOracle derives a deterministic pseudo-hash for witness-only replay,
// where no real block history is available: keccak(chain_id || number) for
// any target in [current-256, current), and the zero hash otherwise. This is
// one concrete BlockHashOracle implementation (spec §9), not baked into the
// Backend adapter itself.
type PseudoOracle struct {
	ChainID uint64
}

func (o PseudoOracle) GetHash(current, target uint64) common.Hash {
	if target >= current || target < saturatingSub(current, 256) {
		return common.Hash{}
	}
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], o.ChainID)
	binary.BigEndian.PutUint64(buf[8:16], target)
	return crypto.Keccak256Hash(buf)
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// WindowOracle resolves hashes from a persisted ancestor window, e.g. a
// chain database that actually stores block headers. It is the
// history-backed counterpart to PseudoOracle.
type WindowOracle struct {
	// Lookup returns the hash of the block at the given number, or the zero
	// hash if it isn't known.
	Lookup func(number uint64) common.Hash
}

func (o WindowOracle) GetHash(current, target uint64) common.Hash {
	if target >= current || target < saturatingSub(current, 256) {
		return common.Hash{}
	}
	if o.Lookup == nil {
		return common.Hash{}
	}
	return o.Lookup(target)
}
