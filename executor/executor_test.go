package executor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/automata-network/evm-executor/chaintypes"
	"github.com/automata-network/evm-executor/state"
)

type fakeDB struct {
	balances map[common.Address]*uint256.Int
	nonces   map[common.Address]uint64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		balances: make(map[common.Address]*uint256.Int),
		nonces:   make(map[common.Address]uint64),
	}
}

func (d *fakeDB) GetAccountBasic(addr common.Address) (*uint256.Int, uint64, error) {
	bal, ok := d.balances[addr]
	if !ok {
		bal = uint256.NewInt(0)
	}
	return bal, d.nonces[addr], nil
}

func (d *fakeDB) GetCode(common.Address) ([]byte, error)                  { return nil, nil }
func (d *fakeDB) GetState(common.Address, common.Hash) (common.Hash, error) { return common.Hash{}, nil }
func (d *fakeDB) Exist(common.Address) (bool, error)                      { return true, nil }

func (d *fakeDB) AddBalance(addr common.Address, delta *uint256.Int) error {
	bal, ok := d.balances[addr]
	if !ok {
		bal = uint256.NewInt(0)
	}
	d.balances[addr] = new(uint256.Int).Add(bal, delta)
	return nil
}

func (d *fakeDB) CheckMissingState(common.Address, []common.Hash) (state.MissingState, error) {
	return state.MissingState{}, nil
}
func (d *fakeDB) ApplyStates([]state.FetchStateResult) error { return nil }
func (d *fakeDB) Revert(common.Hash) error                   { return nil }
func (d *fakeDB) Flush() (common.Hash, error)                 { return common.Hash{}, nil }

type fakeInterpreter struct {
	result state.InterpreterResult
	err    error
}

func (f fakeInterpreter) Execute(*state.Backend, uint64, *common.Address, common.Address, *uint256.Int, []byte) (state.InterpreterResult, error) {
	return f.result, f.err
}

func newLegacyTx(t *testing.T, nonce uint64, gasPrice int64, gasLimit uint64, value int64) *chaintypes.Transaction {
	t.Helper()
	inner := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(gasPrice),
		Gas:      gasLimit,
		To:       &common.Address{0x01},
		Value:    big.NewInt(value),
	})
	return chaintypes.NewTransaction(inner)
}

func baseContext(tx *chaintypes.Transaction) Context {
	return Context{
		ChainID: big.NewInt(1),
		Caller:  common.Address{0xaa},
		Tx:      tx,
		Header: &chaintypes.Header{
			Number:   big.NewInt(100),
			GasLimit: 30_000_000,
			Time:     12345,
			Coinbase: common.Address{0xbb},
		},
		Difficulty: big.NewInt(0),
	}
}

func TestExecuteRejectsNonceTooLow(t *testing.T) {
	db := newFakeDB()
	db.nonces[common.Address{0xaa}] = 5
	tx := newLegacyTx(t, 4, 1, 21000, 0)
	exec := New(baseContext(tx), db)
	_, err := exec.Execute(fakeInterpreter{})
	require.NotNil(t, err)
	require.Equal(t, ErrNonceTooLow, err.Kind)
}

func TestExecuteRejectsNonceTooHigh(t *testing.T) {
	db := newFakeDB()
	db.nonces[common.Address{0xaa}] = 5
	tx := newLegacyTx(t, 6, 1, 21000, 0)
	exec := New(baseContext(tx), db)
	_, err := exec.Execute(fakeInterpreter{})
	require.NotNil(t, err)
	require.Equal(t, ErrNonceTooHigh, err.Kind)
}

func TestExecuteRejectsInsufficientFunds(t *testing.T) {
	db := newFakeDB()
	db.balances[common.Address{0xaa}] = uint256.NewInt(100)
	tx := newLegacyTx(t, 0, 1, 21000, 0)
	exec := New(baseContext(tx), db)
	_, err := exec.Execute(fakeInterpreter{})
	require.NotNil(t, err)
	require.Equal(t, ErrInsufficientFunds, err.Kind)
}

func TestExecuteSkipsBalanceCheckWhenNoGasFee(t *testing.T) {
	db := newFakeDB()
	tx := newLegacyTx(t, 0, 1, 21000, 0)
	ctx := baseContext(tx)
	ctx.NoGasFee = true
	exec := New(ctx, db)
	result, err := exec.Execute(fakeInterpreter{result: state.InterpreterResult{Success: true, UsedGas: 21000}})
	require.Nil(t, err)
	require.True(t, result.Success)
}

func TestExecuteCreditsMinerFee(t *testing.T) {
	db := newFakeDB()
	db.balances[common.Address{0xaa}] = uint256.NewInt(1_000_000_000_000)
	tx := newLegacyTx(t, 0, 10, 21000, 0)
	ctx := baseContext(tx)
	ctx.Header.BaseFee = big.NewInt(0)
	miner := common.Address{0xbb}
	ctx.Miner = &miner
	exec := New(ctx, db)
	_, err := exec.Execute(fakeInterpreter{result: state.InterpreterResult{Success: true, UsedGas: 21000}})
	require.Nil(t, err)
	bal, _, _ := db.GetAccountBasic(miner)
	require.Equal(t, uint256.NewInt(21000*10), bal)
}

func TestExecuteRejectsUnsupportedTxType(t *testing.T) {
	db := newFakeDB()
	tx := newLegacyTx(t, 0, 1, 21000, 0)
	ctx := baseContext(tx)
	ctx.Config.SupportedTxTypes = []uint8{types.AccessListTxType}
	exec := New(ctx, db)
	_, err := exec.Execute(fakeInterpreter{})
	require.NotNil(t, err)
	require.Equal(t, ErrNotSupported, err.Kind)
}

func TestExecuteBurnsFeeWhenNoMiner(t *testing.T) {
	db := newFakeDB()
	db.balances[common.Address{0xaa}] = uint256.NewInt(1_000_000_000_000)
	tx := newLegacyTx(t, 0, 10, 21000, 0)
	ctx := baseContext(tx)
	ctx.Header.BaseFee = big.NewInt(0)
	exec := New(ctx, db)
	_, err := exec.Execute(fakeInterpreter{result: state.InterpreterResult{Success: true, UsedGas: 21000}})
	require.Nil(t, err)
	require.Empty(t, db.balances[common.Address{0xbb}])
}
