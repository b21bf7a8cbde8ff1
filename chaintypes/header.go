// Package chaintypes holds the mutable header, transaction and receipt value
// types the rest of this module operates on. They are thin wrappers around
// go-ethereum's wire types rather than a parallel encoding, so a caller that
// already speaks go-ethereum's RLP/JSON formats can plug straight in.
package chaintypes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Header is the mutable block header under construction by a BlockBuilder.
// Field set matches spec §3: everything a single-block executor needs to
// read or stamp, nothing consensus-engine specific.
type Header struct {
	ParentHash common.Hash
	Number     *big.Int
	GasLimit   uint64
	GasUsed    uint64
	Time       uint64
	Coinbase   common.Address
	MixDigest  common.Hash
	Extra      []byte
	BaseFee    *big.Int
	Difficulty *big.Int
	StateRoot  common.Hash
}

// Copy returns a deep-enough copy for building a child header from a parent.
func (h *Header) Copy() *Header {
	cp := *h
	if h.Number != nil {
		cp.Number = new(big.Int).Set(h.Number)
	}
	if h.BaseFee != nil {
		cp.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	if h.Difficulty != nil {
		cp.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	cp.Extra = append([]byte(nil), h.Extra...)
	return &cp
}

// Hash returns the canonical go-ethereum RLP hash of the header.
func (h *Header) Hash() common.Hash {
	return (&types.Header{
		ParentHash: h.ParentHash,
		Coinbase:   h.Coinbase,
		Root:       h.StateRoot,
		Number:     h.Number,
		GasLimit:   h.GasLimit,
		GasUsed:    h.GasUsed,
		Time:       h.Time,
		Extra:      h.Extra,
		MixDigest:  h.MixDigest,
		Difficulty: h.Difficulty,
		BaseFee:    h.BaseFee,
	}).Hash()
}
