// Package state declares the abstract world-state contracts this engine
// consumes (spec §6) and the Backend adapter that presents them to an EVM
// interpreter (spec §4.2). The trie/node storage/commit machinery itself is
// an external collaborator — only the interface is specified here.
package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MissingState reports which parts of an access tuple are not present
// locally, as returned by DB.CheckMissingState.
type MissingState struct {
	Account  bool
	Code     bool
	Storages []common.Hash
}

// FetchState is a batched request for state the local DB is missing.
// Code, when set, requests the contract bytecode at Address. NeedAccount,
// when set, requests the account itself; StorageKeys lists the storage slots
// to fetch.
type FetchState struct {
	Address     common.Address
	Code        bool
	NeedAccount bool
	StorageKeys []common.Hash
}

// FetchStateResult is one element of an external prefetch response: the
// account basics, code and/or storage values needed to satisfy a FetchState
// request, plus the MPT proof nodes that justify them (consumed by the PoB
// witness builder).
type FetchStateResult struct {
	Address       common.Address
	Exists        bool
	Balance       *big.Int
	Nonce         uint64
	Code          []byte
	AccountProof  [][]byte
	Storage       map[common.Hash]common.Hash
	StorageProofs map[common.Hash][][]byte
}

// DB is the StateDB contract consumed by this engine (spec §6). It is owned
// exclusively by one BlockBuilder at a time (spec §5 "Shared resources").
type DB interface {
	GetAccountBasic(addr common.Address) (balance *uint256.Int, nonce uint64, err error)
	GetCode(addr common.Address) ([]byte, error)
	GetState(addr common.Address, key common.Hash) (common.Hash, error)
	Exist(addr common.Address) (bool, error)
	AddBalance(addr common.Address, delta *uint256.Int) error

	CheckMissingState(addr common.Address, keys []common.Hash) (MissingState, error)
	ApplyStates(results []FetchStateResult) error

	Revert(stateRoot common.Hash) error
	Flush() (common.Hash, error)
}

// BlockHashOracle resolves a historical block hash by number, relative to
// the block currently under construction (spec §3 "Block-hash oracle").
type BlockHashOracle interface {
	GetHash(current, target uint64) common.Hash
}
