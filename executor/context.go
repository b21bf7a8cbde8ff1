// Package executor runs a single transaction against a state.Backend and
// produces the (success, used_gas, logs, apply_log, err_bytes) outcome the
// builder needs to assemble a receipt (spec §4.1, grounded on
// tx_executor.rs's TxExecutor/Context pair, itself referenced from
// types.rs's TxContext).
package executor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/precompile"
	"github.com/automata-network/evm-executor/state"
)

// EVMConfig mirrors the handful of feature toggles the underlying
// interpreter needs (spec §4.1 "cfg"); left to the engine to fill in
// per fork.
type EVMConfig struct {
	ExtraEips []int

	// SupportedTxTypes restricts which go-ethereum tx type tags this engine
	// will execute (spec §4.1 "NotSupported: tx type unknown on this
	// engine"). A nil/empty slice means no restriction.
	SupportedTxTypes []uint8
}

// Context is everything TxExecutor needs to run exactly one transaction
// (spec §4.1's Context/TxContext), assembled fresh by the builder for each
// commit.
type Context struct {
	ChainID    *big.Int
	Caller     common.Address
	Config     EVMConfig
	Precompile *precompile.Registry
	Tx         *chaintypes.Transaction
	Header     *chaintypes.Header
	Oracle     state.BlockHashOracle

	// NoGasFee, when set, skips the balance/payment pre-check entirely
	// (spec §4.1 "no_gas_fee").
	NoGasFee bool
	// ExtraFee, when non-nil, is added on top of the tx's own gas price
	// when charging the sender (spec §4.1 "extra_fee").
	ExtraFee *uint256.Int
	// GasOvercommit relaxes the gas-pool pre-check performed by the
	// builder, not by the executor itself (spec §4.1 "gas_overcommit").
	GasOvercommit bool

	// Miner receives the transaction fee. If nil, the fee is burned
	// (spec §4.1 "miner").
	Miner *common.Address

	BlockBaseFee *big.Int
	Difficulty   *big.Int
}
