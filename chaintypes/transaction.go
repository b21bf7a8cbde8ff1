package chaintypes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer recovers a transaction's sender. Implementations are pure: the same
// transaction and signer config always yield the same address.
type Signer interface {
	Sender(tx *types.Transaction) (common.Address, error)
}

// Transaction is the opaque per-tx view the executor consumes. It wraps
// *types.Transaction so callers keep using go-ethereum's RLP/JSON codec and
// signature schemes, while the executor only sees the handful of derived
// values it actually needs (spec §3).
type Transaction struct {
	Inner *types.Transaction
}

func NewTransaction(tx *types.Transaction) *Transaction {
	return &Transaction{Inner: tx}
}

func (t *Transaction) Hash() common.Hash { return t.Inner.Hash() }

func (t *Transaction) Type() uint8 { return t.Inner.Type() }

func (t *Transaction) Nonce() uint64 { return t.Inner.Nonce() }

func (t *Transaction) GasLimit() uint64 { return t.Inner.Gas() }

func (t *Transaction) To() *common.Address { return t.Inner.To() }

func (t *Transaction) Value() *big.Int { return t.Inner.Value() }

func (t *Transaction) Data() []byte { return t.Inner.Data() }

func (t *Transaction) AccessList() types.AccessList { return t.Inner.AccessList() }

// GasFeeCap returns the tx's max fee per gas (post-1559); for legacy
// transactions this equals GasPrice.
func (t *Transaction) GasFeeCap() *big.Int { return t.Inner.GasFeeCap() }

func (t *Transaction) GasTipCap() *big.Int { return t.Inner.GasTipCap() }

// GasPrice returns the price the tx actually pays given the current base
// fee: min(feeCap, tipCap+baseFee) for 1559 txs, GasPrice for legacy ones.
func (t *Transaction) GasPrice(baseFee *big.Int) *big.Int {
	if baseFee == nil || t.Inner.Type() == types.LegacyTxType || t.Inner.Type() == types.AccessListTxType {
		return new(big.Int).Set(t.Inner.GasPrice())
	}
	tip := t.Inner.GasTipCap()
	fee := new(big.Int).Add(tip, baseFee)
	if cap := t.Inner.GasFeeCap(); fee.Cmp(cap) > 0 {
		return new(big.Int).Set(cap)
	}
	return fee
}

// Sender recovers the transaction's sender using the given signer. Pure.
func (t *Transaction) Sender(signer Signer) (common.Address, error) {
	return signer.Sender(t.Inner)
}

// RLP returns the canonical RLP-encoded transaction bytes.
func (t *Transaction) RLP() ([]byte, error) {
	return t.Inner.MarshalBinary()
}
