package chaintypes

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestHeaderCopyIsIndependent(t *testing.T) {
	h := &Header{
		Number:     big.NewInt(10),
		BaseFee:    big.NewInt(7),
		Difficulty: big.NewInt(0),
		Extra:      []byte{0x01, 0x02},
	}
	cp := h.Copy()
	cp.Number.SetInt64(99)
	cp.Extra[0] = 0xff

	require.Equal(t, int64(10), h.Number.Int64())
	require.Equal(t, byte(0x01), h.Extra[0])
}

func TestHeaderHashStableAndSensitiveToFields(t *testing.T) {
	h := &Header{Number: big.NewInt(1), GasLimit: 30_000_000, Difficulty: big.NewInt(0)}
	h1 := h.Hash()
	h2 := h.Hash()
	require.Equal(t, h1, h2)

	h.GasUsed = 21000
	require.NotEqual(t, h1, h.Hash())
}

func TestTransactionGasPriceLegacyIgnoresBaseFee(t *testing.T) {
	tx := NewTransaction(types.NewTx(&types.LegacyTx{GasPrice: big.NewInt(50)}))
	require.Equal(t, big.NewInt(50), tx.GasPrice(big.NewInt(1000)))
}

func TestTransactionGasPriceDynamicFeeCapsAtFeeCap(t *testing.T) {
	tx := NewTransaction(types.NewTx(&types.DynamicFeeTx{
		GasTipCap: big.NewInt(5),
		GasFeeCap: big.NewInt(20),
	}))
	require.Equal(t, big.NewInt(20), tx.GasPrice(big.NewInt(1000)))
}

func TestTransactionGasPriceDynamicFeeUsesTipPlusBaseFee(t *testing.T) {
	tx := NewTransaction(types.NewTx(&types.DynamicFeeTx{
		GasTipCap: big.NewInt(2),
		GasFeeCap: big.NewInt(100),
	}))
	require.Equal(t, big.NewInt(12), tx.GasPrice(big.NewInt(10)))
}

type fakeSigner struct{ addr common.Address }

func (s fakeSigner) Sender(*types.Transaction) (common.Address, error) { return s.addr, nil }

func TestTransactionSenderDelegatesToSigner(t *testing.T) {
	tx := NewTransaction(types.NewTx(&types.LegacyTx{}))
	addr := common.Address{0xaa}
	got, err := tx.Sender(fakeSigner{addr: addr})
	require.NoError(t, err)
	require.Equal(t, addr, got)
}
