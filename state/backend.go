package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Reader is the read-only account/storage view the EVM interpreter needs
// from the backend (spec §4.2).
type Reader interface {
	Basic(addr common.Address) (balance *uint256.Int, nonce uint64, err error)
	Code(addr common.Address) ([]byte, error)
	Exists(addr common.Address) (bool, error)
	Storage(addr common.Address, key common.Hash) (common.Hash, error)
	// OriginalStorage returns nil if the value is zero, used by EIP-2200 gas
	// accounting (spec §4.2).
	OriginalStorage(addr common.Address, key common.Hash) (*common.Hash, error)
}

// BlockScope exposes the block-level values the EVM interpreter needs that
// don't depend on an address.
type BlockScope interface {
	Coinbase() common.Address
	Difficulty() *big.Int
	GasLimit() uint64
	Number() *big.Int
	Timestamp() uint64
	ChainID() *big.Int
	BaseFee() *big.Int
	GasPrice() *big.Int
	Origin() common.Address
	BlockHash(number uint64) common.Hash
}

// Backend presents the abstract world state to the EVM interpreter for the
// duration of exactly one Execute call (spec §4.2, §9): it holds a uniquely
// owned mutable borrow of the underlying DB and MUST NOT cache between
// calls, since the interpreter's own journaling may mutate the DB between
// steps.
type Backend struct {
	db  DB
	ctx BackendContext
}

// BackendContext is everything a Backend needs besides the DB itself: the
// block/tx-scoped values a TxContext already carries.
type BackendContext struct {
	ChainID    *big.Int
	Caller     common.Address
	Miner      *common.Address
	Header     HeaderView
	Difficulty *big.Int
	BaseFee    *big.Int
	GasPrice   *big.Int
	Oracle     BlockHashOracle
}

// HeaderView is the minimal read-only header surface the backend needs.
type HeaderView interface {
	GasLimit() uint64
	Number() uint64
	Time() uint64
	Coinbase() common.Address
}

// NewBackend borrows db exclusively for the caller's use. The caller must
// not retain the Backend (or let the interpreter retain it) past one
// execute call.
func NewBackend(db DB, ctx BackendContext) *Backend {
	return &Backend{db: db, ctx: ctx}
}

func (b *Backend) Basic(addr common.Address) (*uint256.Int, uint64, error) {
	return b.db.GetAccountBasic(addr)
}

func (b *Backend) Code(addr common.Address) ([]byte, error) {
	return b.db.GetCode(addr)
}

func (b *Backend) Exists(addr common.Address) (bool, error) {
	return b.db.Exist(addr)
}

func (b *Backend) Storage(addr common.Address, key common.Hash) (common.Hash, error) {
	return b.db.GetState(addr, key)
}

// OriginalStorage returns nil if the stored value is zero, per spec §4.2's
// EIP-2200 contract.
func (b *Backend) OriginalStorage(addr common.Address, key common.Hash) (*common.Hash, error) {
	val, err := b.db.GetState(addr, key)
	if err != nil {
		return nil, err
	}
	if val == (common.Hash{}) {
		return nil, nil
	}
	return &val, nil
}

func (b *Backend) Coinbase() common.Address {
	if b.ctx.Miner != nil {
		return *b.ctx.Miner
	}
	return b.ctx.Header.Coinbase()
}

func (b *Backend) Difficulty() *big.Int { return b.ctx.Difficulty }

func (b *Backend) GasLimit() uint64 { return b.ctx.Header.GasLimit() }

func (b *Backend) Number() *big.Int { return new(big.Int).SetUint64(b.ctx.Header.Number()) }

func (b *Backend) Timestamp() uint64 { return b.ctx.Header.Time() }

func (b *Backend) ChainID() *big.Int { return b.ctx.ChainID }

func (b *Backend) BaseFee() *big.Int { return b.ctx.BaseFee }

func (b *Backend) GasPrice() *big.Int { return b.ctx.GasPrice }

func (b *Backend) Origin() common.Address { return b.ctx.Caller }

func (b *Backend) BlockHash(number uint64) common.Hash {
	if b.ctx.Oracle == nil {
		return common.Hash{}
	}
	return b.ctx.Oracle.GetHash(b.ctx.Header.Number(), number)
}

// DB exposes the underlying store for callers (e.g. an Interpreter crediting
// a balance) that need direct access to it.
func (b *Backend) DB() DB { return b.db }

// Interpreter is the EVM execution contract this engine consumes (spec §6):
// it accepts a Backend and returns the outcome of running one transaction.
type Interpreter interface {
	Execute(backend *Backend, gasLimit uint64, to *common.Address, from common.Address, value *uint256.Int, data []byte) (InterpreterResult, error)
}

// InterpreterResult is the (success, used_gas, logs, apply_log, err_bytes)
// tuple spec §6 specifies the interpreter returns.
type InterpreterResult struct {
	Success  bool
	UsedGas  uint64
	Logs     []Log
	ApplyLog []ApplyEntry
	ErrBytes []byte
	// ContractAddress is set when the call created a new contract.
	ContractAddress *common.Address
}

// Log is the minimal event-log shape the interpreter emits; the engine's
// BuildReceipt maps it into go-ethereum's *types.Log for receipt assembly.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}
