package executor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/automata-network/evm-executor/state"
)

// headerAdapter presents a chaintypes.Header as a state.HeaderView without
// giving the state package a dependency on chaintypes.
type headerAdapter struct {
	gasLimit uint64
	number   uint64
	time     uint64
	coinbase common.Address
}

func (h headerAdapter) GasLimit() uint64         { return h.gasLimit }
func (h headerAdapter) Number() uint64           { return h.number }
func (h headerAdapter) Time() uint64             { return h.time }
func (h headerAdapter) Coinbase() common.Address { return h.coinbase }

// TxExecutor runs exactly one transaction (spec §4.3), grounded on
// tx_executor.rs's TxExecutor::execute pipeline.
type TxExecutor struct {
	ctx Context
	db  state.DB
}

// New builds a TxExecutor bound to the given context and StateDB. It does
// not execute anything until Execute is called.
func New(ctx Context, db state.DB) *TxExecutor {
	return &TxExecutor{ctx: ctx, db: db}
}

// Execute runs the pre-checks, then hands off to the EVM interpreter, then
// settles the transaction fee. Matches spec §4.3's five-step ordering.
func (e *TxExecutor) Execute(interp state.Interpreter) (state.InterpreterResult, *ExecuteError) {
	tx := e.ctx.Tx
	header := e.ctx.Header

	if types := e.ctx.Config.SupportedTxTypes; len(types) > 0 && !containsTxType(types, tx.Type()) {
		return state.InterpreterResult{}, notSupported()
	}

	balance, nonce, err := e.db.GetAccountBasic(e.ctx.Caller)
	if err != nil {
		return state.InterpreterResult{}, stateError(err.Error())
	}

	// 1. Nonce.
	txNonce := tx.Nonce()
	if txNonce < nonce {
		return state.InterpreterResult{}, nonceTooLow(nonce, txNonce)
	}
	if txNonce > nonce {
		return state.InterpreterResult{}, nonceTooHigh(nonce, txNonce)
	}

	// 2. Base-fee floor (post-1559 txs only).
	if header.BaseFee != nil && tx.Type() != types.LegacyTxType && tx.Type() != types.AccessListTxType {
		if tx.GasFeeCap().Cmp(header.BaseFee) < 0 {
			return state.InterpreterResult{}, &ExecuteError{
				Kind:             ErrInsufficientBaseFee,
				TxHash:           tx.Hash(),
				BlockBaseFeeGwei: weiToGwei(header.BaseFee),
				BaseFeeGwei:      weiToGwei(tx.GasFeeCap()),
				BlockNumber:      header.Number.Uint64(),
			}
		}
	}

	effectiveGasPrice := tx.GasPrice(header.BaseFee)

	// 3. Balance, unless no_gas_fee.
	if !e.ctx.NoGasFee {
		cost := new(big.Int).Mul(effectiveGasPrice, new(big.Int).SetUint64(tx.GasLimit()))
		cost.Add(cost, tx.Value())
		if e.ctx.ExtraFee != nil {
			cost.Add(cost, e.ctx.ExtraFee.ToBig())
		}
		bal := balance.ToBig()
		if bal.Cmp(cost) < 0 {
			return state.InterpreterResult{}, insufficientFunds()
		}
	}

	// 4. EVM handoff.
	backend := state.NewBackend(e.db, state.BackendContext{
		ChainID:    e.ctx.ChainID,
		Caller:     e.ctx.Caller,
		Miner:      e.ctx.Miner,
		Difficulty: e.ctx.Difficulty,
		BaseFee:    header.BaseFee,
		GasPrice:   effectiveGasPrice,
		Oracle:     e.ctx.Oracle,
		Header: headerAdapter{
			gasLimit: header.GasLimit,
			number:   header.Number.Uint64(),
			time:     header.Time,
			coinbase: header.Coinbase,
		},
	})

	value, _ := uint256.FromBig(tx.Value())
	result, err := interp.Execute(backend, tx.GasLimit(), tx.To(), e.ctx.Caller, value, tx.Data())
	if err != nil {
		return state.InterpreterResult{}, paymentFailed(err.Error())
	}

	// 5. Fee settlement.
	if e.ctx.Miner != nil {
		tip := new(big.Int).Sub(effectiveGasPrice, header.BaseFee)
		feeShare := new(big.Int).Mul(tip, new(big.Int).SetUint64(result.UsedGas))
		baseShare := new(big.Int).Mul(header.BaseFee, new(big.Int).SetUint64(result.UsedGas))
		minerFee := new(big.Int).Add(feeShare, baseShare)
		minerFeeU256, _ := uint256.FromBig(minerFee)
		if err := e.db.AddBalance(*e.ctx.Miner, minerFeeU256); err != nil {
			return result, stateError(err.Error())
		}
		if e.ctx.ExtraFee != nil {
			if err := e.db.AddBalance(*e.ctx.Miner, e.ctx.ExtraFee); err != nil {
				return result, stateError(err.Error())
			}
		}
	}

	return result, nil
}

func containsTxType(types []uint8, t uint8) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

func weiToGwei(v *big.Int) string {
	if v == nil {
		return "0"
	}
	gwei := new(big.Int).Div(v, big.NewInt(1_000_000_000))
	return gwei.String()
}
