package prefetch

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/automata-network/evm-executor/state"
)

type fakeDB struct {
	missing map[common.Address]state.MissingState
	applied []state.FetchStateResult
}

func (d *fakeDB) GetAccountBasic(common.Address) (*uint256.Int, uint64, error) {
	return uint256.NewInt(0), 0, nil
}
func (d *fakeDB) GetCode(common.Address) ([]byte, error) { return nil, nil }
func (d *fakeDB) GetState(common.Address, common.Hash) (common.Hash, error) {
	return common.Hash{}, nil
}
func (d *fakeDB) Exist(common.Address) (bool, error)                   { return true, nil }
func (d *fakeDB) AddBalance(common.Address, *uint256.Int) error        { return nil }
func (d *fakeDB) CheckMissingState(addr common.Address, keys []common.Hash) (state.MissingState, error) {
	return d.missing[addr], nil
}
func (d *fakeDB) ApplyStates(results []state.FetchStateResult) error {
	d.applied = results
	return nil
}
func (d *fakeDB) Revert(common.Hash) error   { return nil }
func (d *fakeDB) Flush() (common.Hash, error) { return common.Hash{}, nil }

type fakeExternal struct {
	captured []state.FetchState
	results  []state.FetchStateResult
}

func (f *fakeExternal) Prefetch(req []state.FetchState) ([]state.FetchStateResult, error) {
	f.captured = req
	return f.results, nil
}

func TestPrefetchRequestsFullAccountWhenMissing(t *testing.T) {
	addr := common.Address{0x01}
	key := common.Hash{0x02}
	db := &fakeDB{missing: map[common.Address]state.MissingState{
		addr: {Account: true},
	}}
	ext := &fakeExternal{}
	p := &Prefetcher{DB: db, External: ext}

	n, err := p.Prefetch([]AccessTuple{{Address: addr, StorageKeys: []common.Hash{key}}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, ext.captured, 1)
	require.True(t, ext.captured[0].NeedAccount)
	require.True(t, ext.captured[0].Code)
	require.Equal(t, []common.Hash{key}, ext.captured[0].StorageKeys)
}

func TestPrefetchRequestsOnlyMissingStorage(t *testing.T) {
	addr := common.Address{0x01}
	missingKey := common.Hash{0x03}
	db := &fakeDB{missing: map[common.Address]state.MissingState{
		addr: {Storages: []common.Hash{missingKey}},
	}}
	ext := &fakeExternal{}
	p := &Prefetcher{DB: db, External: ext}

	n, err := p.Prefetch([]AccessTuple{{Address: addr, StorageKeys: []common.Hash{missingKey, {0x04}}}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.False(t, ext.captured[0].NeedAccount)
	require.False(t, ext.captured[0].Code)
	require.Equal(t, []common.Hash{missingKey}, ext.captured[0].StorageKeys)
}

func TestPrefetchSkipsWhenNothingMissing(t *testing.T) {
	addr := common.Address{0x01}
	db := &fakeDB{missing: map[common.Address]state.MissingState{}}
	ext := &fakeExternal{}
	p := &Prefetcher{DB: db, External: ext}

	n, err := p.Prefetch([]AccessTuple{{Address: addr}})
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Nil(t, ext.captured)
}

func TestPrefetchMergesDuplicateAddresses(t *testing.T) {
	addr := common.Address{0x01}
	k1, k2 := common.Hash{0x01}, common.Hash{0x02}
	db := &fakeDB{missing: map[common.Address]state.MissingState{
		addr: {Storages: []common.Hash{k1, k2}},
	}}
	ext := &fakeExternal{}
	p := &Prefetcher{DB: db, External: ext}

	n, err := p.Prefetch([]AccessTuple{
		{Address: addr, StorageKeys: []common.Hash{k1}},
		{Address: addr, StorageKeys: []common.Hash{k2}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.ElementsMatch(t, []common.Hash{k1, k2}, ext.captured[0].StorageKeys)
}
