// Package prefetch diffs a transaction's access list against local state
// and batches the gaps into one external witness request (spec §4.5,
// grounded on block_builder.rs's BlockBuilder::prefetch).
package prefetch

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/automata-network/evm-executor/state"
)

// AccessTuple is one (address, storage keys) pair from a transaction's
// access list, the unit Prefetch iterates over.
type AccessTuple struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// StatePrefetcher is the external collaborator that resolves a batch of
// FetchState requests into witness-carrying results, e.g. an RPC client
// against a full node. Grounded on block_builder.rs's StatePrefetcher trait.
type StatePrefetcher interface {
	Prefetch(req []state.FetchState) ([]state.FetchStateResult, error)
}

// Prefetcher runs the diff-and-batch algorithm against one DB.
type Prefetcher struct {
	DB       state.DB
	External StatePrefetcher
}

// Prefetch walks the access tuples, builds the minimal batched FetchState
// request per spec §4.5's three steps, dispatches it if non-empty, and
// applies the results back into the DB. Returns the number of unique
// addresses that were batched.
func (p *Prefetcher) Prefetch(tuples []AccessTuple) (int, error) {
	var batch []state.FetchState

	for _, item := range tuples {
		missing, err := p.DB.CheckMissingState(item.Address, item.StorageKeys)
		if err != nil {
			return 0, err
		}

		var fetch state.FetchState
		fetch.Address = item.Address
		if missing.Account {
			fetch.Code = true
			fetch.NeedAccount = true
			fetch.StorageKeys = item.StorageKeys
		} else {
			if missing.Code {
				fetch.Code = true
			}
			fetch.StorageKeys = missing.Storages
		}

		if !fetch.NeedAccount && !fetch.Code && len(fetch.StorageKeys) == 0 {
			continue
		}

		batch = mergeFetch(batch, fetch)
	}

	if len(batch) == 0 {
		return 0, nil
	}

	results, err := p.External.Prefetch(batch)
	if err != nil {
		return 0, err
	}
	if err := p.DB.ApplyStates(results); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// mergeFetch appends fetch to batch, or merges it into an existing entry
// for the same address: union the storage keys, OR the account/code flags
// (spec §4.5 step 3).
func mergeFetch(batch []state.FetchState, fetch state.FetchState) []state.FetchState {
	for i := range batch {
		if batch[i].Address != fetch.Address {
			continue
		}
		batch[i].Code = batch[i].Code || fetch.Code
		batch[i].NeedAccount = batch[i].NeedAccount || fetch.NeedAccount
		batch[i].StorageKeys = unionKeys(batch[i].StorageKeys, fetch.StorageKeys)
		return batch
	}
	return append(batch, fetch)
}

func unionKeys(a, b []common.Hash) []common.Hash {
	seen := make(map[common.Hash]struct{}, len(a)+len(b))
	out := make([]common.Hash, 0, len(a)+len(b))
	for _, k := range a {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	for _, k := range b {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
