package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ApplyEntry is one element of the ordered apply-log an EVM interpreter
// returns from execute (spec §3 ExecuteResult.apply_log): either a Modify
// (Delete is false) or a Delete (Delete is true, all other fields ignored).
type ApplyEntry struct {
	Address common.Address
	Delete  bool

	Balance *uint256.Int
	Nonce   uint64

	Code    []byte
	HasCode bool

	StorageDiff  map[common.Hash]common.Hash
	ResetStorage bool
}
