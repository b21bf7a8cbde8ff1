package chaintypes

import "github.com/ethereum/go-ethereum/common"

// Withdrawal credits a validator withdrawal to an account balance.
// AmountGwei is denominated in gwei, per spec §9 ("do not inherit the
// gwei->wei scaling from any helper constant" — the ×1e9 conversion is
// performed explicitly in engine.ProcessWithdrawals).
type Withdrawal struct {
	Index     uint64
	Validator uint64
	Address   common.Address
	AmountGwei uint64
}

// Block is the finalized, immutable result of a BlockBuilder.Finalize call.
type Block struct {
	Header       *Header
	Transactions []*Transaction
	Receipts     []*Receipt
	Withdrawals  []Withdrawal
}
