// Package engine holds the chain-specific hooks a BlockBuilder delegates to:
// header derivation, EVM configuration, the precompile profile, receipt
// shape and withdrawal crediting (spec §4.6, grounded on engines.rs's
// Ethereum engine and block_builder.rs's Engine trait).
package engine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/executor"
	"github.com/automata-network/evm-executor/precompile"
	"github.com/automata-network/evm-executor/state"
)

// NewBlockContext is the consensus-provided information needed to derive a
// child header from its parent (spec §4.6 "new_block_header"), grounded on
// engines.rs's ConsensusBlockInfo.
type NewBlockContext struct {
	GasLimit  uint64
	Timestamp uint64
	Random    common.Hash
	Extra     []byte
	Coinbase  common.Address
}

// Engine is the chain-specific hook set a BlockBuilder delegates to. One
// instance is bound to a BlockBuilder for its lifetime (spec §4.6).
type Engine interface {
	Signer() chaintypes.Signer
	EVMConfig() executor.EVMConfig
	Precompile() *precompile.Registry

	NewBlockHeader(parent *chaintypes.Header, ctx NewBlockContext) *chaintypes.Header

	// BuildReceipt assembles a receipt for one executed transaction.
	// cumulativeBefore is the header's gas_used prior to this transaction,
	// so the engine can stamp the monotonic cumulative_gas_used field.
	BuildReceipt(result state.InterpreterResult, usedGas uint64, cumulativeBefore uint64, txIdx int, tx *chaintypes.Transaction, header *chaintypes.Header) *chaintypes.Receipt

	// StampTxContext fills in the block-derived fields of an executor
	// Context before a transaction runs (spec §4.6 "tx_context").
	StampTxContext(ctx *executor.Context, header *chaintypes.Header)

	// ProcessWithdrawals credits each withdrawal's amount (gwei) to its
	// address's balance.
	ProcessWithdrawals(db state.DB, withdrawals []chaintypes.Withdrawal) error
}
