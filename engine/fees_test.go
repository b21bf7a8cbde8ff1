package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcGasLimitHomesUpward(t *testing.T) {
	got := CalcGasLimit(10_000_000, 15_000_000)
	require.Greater(t, got, uint64(10_000_000))
	require.LessOrEqual(t, got, uint64(15_000_000))
}

func TestCalcGasLimitHomesDownward(t *testing.T) {
	got := CalcGasLimit(10_000_000, 5_000_000)
	require.Less(t, got, uint64(10_000_000))
	require.GreaterOrEqual(t, got, uint64(5_000_000))
}

func TestCalcGasLimitFloorsDesiredAtMinimum(t *testing.T) {
	got := CalcGasLimit(10_000_000, 1_000)
	require.GreaterOrEqual(t, got, minGasLimit)
}

func TestCalcBaseFeeUnchangedAtTarget(t *testing.T) {
	baseFee := big.NewInt(1_000_000_000)
	got := CalcBaseFee(20_000_000, 10_000_000, baseFee)
	require.Equal(t, baseFee, got)
}

func TestCalcBaseFeeIncreasesWhenOverTarget(t *testing.T) {
	baseFee := big.NewInt(1_000_000_000)
	got := CalcBaseFee(20_000_000, 20_000_000, baseFee)
	require.Equal(t, big.NewInt(1_125_000_000), got)
}

func TestCalcBaseFeeDecreasesWhenUnderTarget(t *testing.T) {
	baseFee := big.NewInt(1_000_000_000)
	got := CalcBaseFee(20_000_000, 0, baseFee)
	require.Equal(t, big.NewInt(875_000_000), got)
}

func TestCalcBaseFeeFloorsAtZero(t *testing.T) {
	baseFee := big.NewInt(0)
	got := CalcBaseFee(20_000_000, 0, baseFee)
	require.Equal(t, big.NewInt(0), got)
}
