package chaintypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Receipt status values, mirroring go-ethereum's.
const (
	ReceiptStatusFailed     = types.ReceiptStatusFailed
	ReceiptStatusSuccessful = types.ReceiptStatusSuccessful
)

// Receipt is the per-transaction execution record, spec §3. CumulativeGasUsed
// is the builder-relative prefix sum fixed by spec §9 (not header-relative).
type Receipt struct {
	Status            uint64
	TxHash            common.Hash
	TxIndex           uint
	Type              uint8
	GasUsed           uint64
	CumulativeGasUsed uint64
	Logs              []*types.Log
	Bloom             types.Bloom

	ContractAddress *common.Address
	Root            []byte // optional merkle root, pre-Byzantium receipts only
}

// ToEthereum renders the receipt in go-ethereum's wire shape, useful for
// callers that want to RLP-encode or hash it with the stock libraries.
func (r *Receipt) ToEthereum() *types.Receipt {
	out := &types.Receipt{
		Type:              r.Type,
		Status:            r.Status,
		CumulativeGasUsed: r.CumulativeGasUsed,
		Logs:              r.Logs,
		TxHash:            r.TxHash,
		GasUsed:           r.GasUsed,
		TransactionIndex:  r.TxIndex,
		Bloom:             r.Bloom,
		PostState:         r.Root,
	}
	if r.ContractAddress != nil {
		out.ContractAddress = *r.ContractAddress
	}
	return out
}
