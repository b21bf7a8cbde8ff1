// Package poe implements the two attestations this engine produces: the
// Proof-of-Block witness (a canonical hash over the MPT nodes a prefetch
// touched) and the Proof-of-Execution (a signed tuple binding a block's
// state transition), grounded on pob.rs and poe.rs.
package poe

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/state"
)

// Witness is the Proof-of-Block input capture: everything a verifier needs
// to independently replay one block (spec §3 "Witness (PoB)").
type Witness struct {
	ChainID        uint64
	PrevStateRoot  common.Hash
	BlockHashes    map[uint64]common.Hash
	MPTNodes       [][]byte
	Codes          [][]byte
	Block          *chaintypes.Block

	stateHash *common.Hash
}

// FromFetchResults builds a Witness from the set of prefetch results a
// block's execution consumed, deduplicating MPT proof nodes by hash as it
// goes. Grounded on pob.rs's Pob::from_proof.
func FromFetchResults(chainID uint64, block *chaintypes.Block, prevStateRoot common.Hash, blockHashes map[uint64]common.Hash, codes map[common.Hash][]byte, results []state.FetchStateResult) *Witness {
	nodes := make(map[common.Hash][]byte)
	for _, r := range results {
		for _, node := range r.AccountProof {
			nodes[crypto.Keccak256Hash(node)] = node
		}
		for _, proof := range r.StorageProofs {
			for _, node := range proof {
				nodes[crypto.Keccak256Hash(node)] = node
			}
		}
	}

	w := &Witness{
		ChainID:       chainID,
		PrevStateRoot: prevStateRoot,
		BlockHashes:   blockHashes,
		Block:         block,
	}
	for _, node := range nodes {
		w.MPTNodes = append(w.MPTNodes, node)
	}
	for _, code := range codes {
		w.Codes = append(w.Codes, code)
	}
	return w
}

// StateHash canonicalizes mpt_nodes (sort ascending byte-lexicographic,
// then drop duplicate entries) and hashes their concatenation. The result is
// cached after the first call. Grounded on pob.rs's Pob::state_hash.
func (w *Witness) StateHash() common.Hash {
	if w.stateHash != nil {
		return *w.stateHash
	}
	sort.Slice(w.MPTNodes, func(i, j int) bool {
		return bytes.Compare(w.MPTNodes[i], w.MPTNodes[j]) < 0
	})
	deduped := w.MPTNodes[:0]
	for _, node := range w.MPTNodes {
		if len(deduped) > 0 && bytes.Equal(node, deduped[len(deduped)-1]) {
			continue
		}
		deduped = append(deduped, node)
	}
	w.MPTNodes = deduped
	hasher := crypto.NewKeccakState()
	for _, node := range w.MPTNodes {
		hasher.Write(node)
	}
	var out common.Hash
	hasher.Read(out[:])
	w.stateHash = &out
	return out
}

// BlockHash returns the hash of the witness's header.
func (w *Witness) BlockHash() common.Hash {
	return w.Block.Header.Hash()
}
