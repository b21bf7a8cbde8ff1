package poe

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/automata-network/evm-executor/chaintypes"
)

func TestWitnessStateHashIsStableAndSorted(t *testing.T) {
	block := &chaintypes.Block{Header: &chaintypes.Header{Number: big.NewInt(1), GasLimit: 1}}
	w := &Witness{Block: block, MPTNodes: [][]byte{[]byte("zzz"), []byte("aaa"), []byte("mmm")}}
	h1 := w.StateHash()
	require.Equal(t, []byte("aaa"), w.MPTNodes[0])
	h2 := w.StateHash()
	require.Equal(t, h1, h2)
}

func TestWitnessStateHashMatchesManualConcat(t *testing.T) {
	block := &chaintypes.Block{Header: &chaintypes.Header{Number: big.NewInt(1), GasLimit: 1}}
	nodes := [][]byte{[]byte("b"), []byte("a")}
	w := &Witness{Block: block, MPTNodes: append([][]byte{}, nodes...)}
	got := w.StateHash()
	want := crypto.Keccak256Hash([]byte("a"), []byte("b"))
	require.Equal(t, want, got)
}

func TestFoldBatchRejectsEmpty(t *testing.T) {
	_, err := FoldBatch(common.Hash{}, nil)
	require.EqualError(t, err, "length of block poe is zero")
}

func TestFoldBatchDetectsDiscontinuity(t *testing.T) {
	p1 := SingleBlock(common.Hash{0x1}, common.Hash{0x10}, common.Hash{0x11}, common.Hash{})
	p2 := SingleBlock(common.Hash{0x2}, common.Hash{0x99}, common.Hash{0x12}, common.Hash{})
	_, err := FoldBatch(common.Hash{}, []*ProofOfExecution{p1, p2})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected state_root in poe[1]")
}

func TestFoldBatchContinuous(t *testing.T) {
	p1 := SingleBlock(common.Hash{0x1}, common.Hash{0x10}, common.Hash{0x11}, common.Hash{})
	p2 := SingleBlock(common.Hash{0x2}, common.Hash{0x11}, common.Hash{0x12}, common.Hash{})
	batch, err := FoldBatch(common.Hash{0xff}, []*ProofOfExecution{p1, p2})
	require.NoError(t, err)
	require.Equal(t, common.Hash{0x10}, batch.PrevStateRoot)
	require.Equal(t, common.Hash{0x12}, batch.NewStateRoot)
}

func TestSignAndRecoverRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	p := SingleBlock(common.Hash{0x1}, common.Hash{0x2}, common.Hash{0x3}, common.Hash{0x4})
	require.NoError(t, p.Sign(big.NewInt(1), key))

	got, err := p.Recover(big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, addr, got)
}

func TestRecoverUnderWrongChainIDYieldsDifferentAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	p := SingleBlock(common.Hash{0x1}, common.Hash{0x2}, common.Hash{0x3}, common.Hash{0x4})
	require.NoError(t, p.Sign(big.NewInt(1), key))

	got, err := p.Recover(big.NewInt(2))
	require.NoError(t, err)
	require.NotEqual(t, addr, got)
}
