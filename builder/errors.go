package builder

import (
	"fmt"

	"github.com/automata-network/evm-executor/executor"
)

// CommitError is the reason Commit refused to include a transaction.
// Grounded on block_builder.rs's CommitError enum.
type CommitError struct {
	// NotEnoughGasLimit fields; zero otherwise.
	GasPool  uint64
	GasLimit uint64

	// Execute wraps a failure from the transaction executor itself.
	Execute *executor.ExecuteError
}

func (e *CommitError) Error() string {
	if e.Execute != nil {
		return fmt.Sprintf("commit: %s", e.Execute.Error())
	}
	return fmt.Sprintf("commit: not enough gas limit: pool=%d limit=%d", e.GasPool, e.GasLimit)
}

func notEnoughGasLimit(gasPool, gasLimit uint64) *CommitError {
	return &CommitError{GasPool: gasPool, GasLimit: gasLimit}
}

func executeFailed(err *executor.ExecuteError) *CommitError {
	return &CommitError{Execute: err}
}
