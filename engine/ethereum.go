package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/executor"
	"github.com/automata-network/evm-executor/precompile"
	"github.com/automata-network/evm-executor/state"
)

var gwei = new(big.Int).SetUint64(1_000_000_000)

// Ethereum is the mainnet-like profile: Berlin precompiles, EIP-1559 fee
// market, and an EVM config that accepts legacy, access-list and
// dynamic-fee transactions. Grounded on engines.rs's Ethereum engine.
type Ethereum struct {
	ChainID *big.Int
	signer  chaintypes.Signer
}

// NewEthereum builds the mainnet-like engine for the given chain id, with
// the supplied signer used for sender recovery.
func NewEthereum(chainID *big.Int, signer chaintypes.Signer) *Ethereum {
	return &Ethereum{ChainID: chainID, signer: signer}
}

func (e *Ethereum) Signer() chaintypes.Signer { return e.signer }

func (e *Ethereum) EVMConfig() executor.EVMConfig {
	return executor.EVMConfig{
		SupportedTxTypes: []uint8{types.LegacyTxType, types.AccessListTxType, types.DynamicFeeTxType},
	}
}

func (e *Ethereum) Precompile() *precompile.Registry { return precompile.Berlin() }

func (e *Ethereum) NewBlockHeader(parent *chaintypes.Header, ctx NewBlockContext) *chaintypes.Header {
	gasLimit := CalcGasLimit(parent.GasLimit, ctx.GasLimit)
	baseFee := CalcBaseFee(parent.GasLimit, parent.GasUsed, parent.BaseFee)
	return &chaintypes.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Add(parent.Number, big.NewInt(1)),
		GasLimit:   gasLimit,
		Time:       ctx.Timestamp,
		Coinbase:   ctx.Coinbase,
		MixDigest:  ctx.Random,
		Extra:      ctx.Extra,
		BaseFee:    baseFee,
		Difficulty: big.NewInt(0),
	}
}

func (e *Ethereum) BuildReceipt(result state.InterpreterResult, usedGas uint64, cumulativeBefore uint64, txIdx int, tx *chaintypes.Transaction, header *chaintypes.Header) *chaintypes.Receipt {
	status := chaintypes.ReceiptStatusFailed
	if result.Success {
		status = chaintypes.ReceiptStatusSuccessful
	}
	logs := make([]*types.Log, 0, len(result.Logs))
	for _, l := range result.Logs {
		logs = append(logs, &types.Log{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
		})
	}
	receipt := &chaintypes.Receipt{
		Status:            status,
		TxHash:            tx.Hash(),
		TxIndex:           uint(txIdx),
		Type:              tx.Type(),
		GasUsed:           usedGas,
		CumulativeGasUsed: cumulativeBefore + usedGas,
		Logs:              logs,
		ContractAddress:   result.ContractAddress,
	}
	receipt.Bloom = types.CreateBloom(receipt.ToEthereum())
	return receipt
}

func (e *Ethereum) StampTxContext(ctx *executor.Context, header *chaintypes.Header) {
	ctx.BlockBaseFee = header.BaseFee
	miner := header.Coinbase
	ctx.Miner = &miner
}

func (e *Ethereum) ProcessWithdrawals(db state.DB, withdrawals []chaintypes.Withdrawal) error {
	for _, w := range withdrawals {
		amount := new(uint256.Int).Mul(uint256.NewInt(w.AmountGwei), uint256.MustFromBig(gwei))
		if err := db.AddBalance(w.Address, amount); err != nil {
			return err
		}
	}
	return nil
}

var _ Engine = (*Ethereum)(nil)
