// Package builder sequences transaction commits into a block: gas-pool
// accounting, revert, withdrawals and finalisation (spec §4.4, grounded on
// block_builder.rs's BlockBuilder).
package builder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/engine"
	"github.com/automata-network/evm-executor/executor"
	"github.com/automata-network/evm-executor/prefetch"
	"github.com/automata-network/evm-executor/state"
)

// TxPolicy carries the per-transaction overrides spec §3's TxContext exposes
// (no_gas_fee, extra_fee, gas_overcommit). The zero value reproduces the
// default commit path: balance is checked, no extra fee is charged, and the
// gas-pool pre-check is enforced.
type TxPolicy struct {
	// NoGasFee skips the sender balance/payment pre-check entirely, and
	// also skips Commit's gas-pool pre-check (spec §4.1 "no_gas_fee").
	NoGasFee bool
	// ExtraFee, when non-nil, is added on top of the tx's own gas price when
	// charging the sender, and credited to the miner alongside the tip/base
	// fee (spec §4.1 "extra_fee").
	ExtraFee *uint256.Int
	// GasOvercommit bypasses Commit's gas-pool pre-check, letting a
	// transaction whose gas_limit exceeds the pool's remaining capacity
	// through anyway (spec §4.1/§4.4 "gas_overcommit").
	GasOvercommit bool
}

// BlockBuilder owns the header under construction, its receipts and
// transaction lists, and the StateDB handle used to build them. It is not
// safe for concurrent use (spec §3 "Ownership").
type BlockBuilder struct {
	engine     engine.Engine
	db         state.DB
	interp     state.Interpreter
	prefetcher *prefetch.Prefetcher
	chainID    *big.Int

	header *chaintypes.Header
	pool   *gasPool

	txs         []*chaintypes.Transaction
	receipts    []*chaintypes.Receipt
	withdrawals []chaintypes.Withdrawal
}

// New starts building on top of header, which the caller has already
// derived via engine.NewBlockHeader. gas_pool starts at zero spent
// (spec §4.4 "new"). prefetcher may be nil if Prefetch will never be
// called.
func New(eng engine.Engine, db state.DB, interp state.Interpreter, prefetcher *prefetch.Prefetcher, chainID *big.Int, header *chaintypes.Header) *BlockBuilder {
	return &BlockBuilder{
		engine:     eng,
		db:         db,
		interp:     interp,
		prefetcher: prefetcher,
		chainID:    chainID,
		header:     header,
		pool:       newGasPool(header.GasLimit),
	}
}

func (b *BlockBuilder) Txs() []*chaintypes.Transaction { return b.txs }

func (b *BlockBuilder) Receipts() []*chaintypes.Receipt { return b.receipts }

// Commit runs the gas-pool pre-check, executes the transaction, and on
// success appends (tx, receipt) atomically and advances cumulative_gas_used.
// On failure nothing is appended; the underlying StateDB is responsible for
// having rolled back its own journaling (spec §4.4 "commit"). Equivalent to
// CommitWithPolicy(tx, TxPolicy{}).
func (b *BlockBuilder) Commit(tx *chaintypes.Transaction) (*chaintypes.Receipt, *CommitError) {
	return b.CommitWithPolicy(tx, TxPolicy{})
}

// CommitWithPolicy is Commit with the per-transaction overrides spec §4.1's
// TxContext exposes applied to this one call. GasOvercommit and NoGasFee each
// bypass the gas-pool pre-check that Commit otherwise enforces;
// NoGasFee/ExtraFee are also forwarded to the executor unchanged.
func (b *BlockBuilder) CommitWithPolicy(tx *chaintypes.Transaction, policy TxPolicy) (*chaintypes.Receipt, *CommitError) {
	if !policy.GasOvercommit && !policy.NoGasFee && tx.GasLimit() > b.pool.remaining() {
		return nil, notEnoughGasLimit(b.pool.remaining(), tx.GasLimit())
	}

	sender, err := tx.Sender(b.engine.Signer())
	if err != nil {
		return nil, executeFailed(&executor.ExecuteError{Kind: executor.ErrExecutePaymentTxFail, Msg: err.Error()})
	}

	ctx := executor.Context{
		ChainID:       b.chainID,
		Caller:        sender,
		Config:        b.engine.EVMConfig(),
		Precompile:    b.engine.Precompile(),
		Tx:            tx,
		Header:        b.header,
		Difficulty:    b.header.Difficulty,
		NoGasFee:      policy.NoGasFee,
		ExtraFee:      policy.ExtraFee,
		GasOvercommit: policy.GasOvercommit,
	}
	b.engine.StampTxContext(&ctx, b.header)

	result, execErr := executor.New(ctx, b.db).Execute(b.interp)
	if execErr != nil {
		return nil, executeFailed(execErr)
	}

	receipt := b.engine.BuildReceipt(result, result.UsedGas, b.header.GasUsed, len(b.txs), tx, b.header)
	b.pool.cost(result.UsedGas)
	b.header.GasUsed = b.pool.cumulative

	b.txs = append(b.txs, tx)
	b.receipts = append(b.receipts, receipt)
	return receipt, nil
}

// TruncateAndRevert drops receipts/txs from index n onward, refunds their
// gas, and reverts the StateDB to stateRoot. After the call the builder is
// semantically equivalent to one that committed only the first n
// transactions (spec §4.4 "truncate_and_revert").
func (b *BlockBuilder) TruncateAndRevert(n int, stateRoot common.Hash) error {
	for _, r := range b.receipts[n:] {
		b.pool.refund(r.GasUsed)
	}
	b.txs = b.txs[:n]
	b.receipts = b.receipts[:n]
	b.header.GasUsed = b.pool.cumulative
	return b.db.Revert(stateRoot)
}

// Withdrawal credits each withdrawal's amount and records the list for
// inclusion at Finalize. Calling it more than once is the caller's error to
// avoid (spec §4.4 "idempotent only if called at most once").
func (b *BlockBuilder) Withdrawal(withdrawals []chaintypes.Withdrawal) error {
	if err := b.engine.ProcessWithdrawals(b.db, withdrawals); err != nil {
		return err
	}
	b.withdrawals = withdrawals
	return nil
}

// Prefetch diffs tuples against local state and batches the gaps into one
// external request via the builder's prefetcher (spec §4.5). Must be called
// before Commit for the corresponding transactions.
func (b *BlockBuilder) Prefetch(tuples []prefetch.AccessTuple) (int, error) {
	return b.prefetcher.Prefetch(tuples)
}

// Finalize flushes the StateDB, stamps the resulting state root and total
// gas used onto the header, and assembles the block from the header,
// transactions, receipts and withdrawals. No engine hook is invoked at this
// step (spec §4.4 "finalize").
func (b *BlockBuilder) Finalize() (*chaintypes.Block, error) {
	root, err := b.db.Flush()
	if err != nil {
		return nil, err
	}
	b.header.StateRoot = root
	b.header.GasUsed = b.pool.cumulative

	return &chaintypes.Block{
		Header:       b.header,
		Transactions: b.txs,
		Receipts:     b.receipts,
		Withdrawals:  b.withdrawals,
	}, nil
}
