package executor

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ExecuteError is the taxonomy of reasons TxExecutor.Execute can refuse to
// run a transaction at all (as opposed to the transaction running and
// failing, which is reported via ExecuteResult.Success = false). Grounded
// one-for-one on types.rs's ExecuteError enum.
type ExecuteError struct {
	Kind ExecuteErrorKind

	// InsufficientBaseFee fields.
	TxHash           common.Hash
	BlockBaseFeeGwei string
	BaseFeeGwei      string
	BlockNumber      uint64

	// ExecutePaymentTxFail / StateError message.
	Msg string

	// NonceTooLow / NonceTooHigh fields.
	Expect uint64
	Got    uint64
}

type ExecuteErrorKind int

const (
	ErrNotSupported ExecuteErrorKind = iota
	ErrInsufficientFunds
	ErrInsufficientBaseFee
	ErrExecutePaymentTxFail
	ErrNonceTooLow
	ErrNonceTooHigh
	ErrStateError
)

func (e *ExecuteError) Error() string {
	switch e.Kind {
	case ErrNotSupported:
		return "execute: not supported"
	case ErrInsufficientFunds:
		return "execute: insufficient funds"
	case ErrInsufficientBaseFee:
		return fmt.Sprintf("execute: insufficient base fee: tx=%x block_base_fee_gwei=%s base_fee_gwei=%s block_number=%d",
			e.TxHash, e.BlockBaseFeeGwei, e.BaseFeeGwei, e.BlockNumber)
	case ErrExecutePaymentTxFail:
		return fmt.Sprintf("execute: payment tx failed: %s", e.Msg)
	case ErrNonceTooLow:
		return fmt.Sprintf("execute: nonce too low: expect=%d got=%d", e.Expect, e.Got)
	case ErrNonceTooHigh:
		return fmt.Sprintf("execute: nonce too high: expect=%d got=%d", e.Expect, e.Got)
	case ErrStateError:
		return fmt.Sprintf("execute: state error: %s", e.Msg)
	default:
		return "execute: unknown error"
	}
}

func notSupported() *ExecuteError        { return &ExecuteError{Kind: ErrNotSupported} }
func insufficientFunds() *ExecuteError   { return &ExecuteError{Kind: ErrInsufficientFunds} }
func stateError(msg string) *ExecuteError {
	return &ExecuteError{Kind: ErrStateError, Msg: msg}
}
func nonceTooLow(expect, got uint64) *ExecuteError {
	return &ExecuteError{Kind: ErrNonceTooLow, Expect: expect, Got: got}
}
func nonceTooHigh(expect, got uint64) *ExecuteError {
	return &ExecuteError{Kind: ErrNonceTooHigh, Expect: expect, Got: got}
}
func paymentFailed(msg string) *ExecuteError {
	return &ExecuteError{Kind: ErrExecutePaymentTxFail, Msg: msg}
}
