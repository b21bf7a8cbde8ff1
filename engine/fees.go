package engine

import "math/big"

const (
	gasLimitBoundDivisor uint64 = 1024
	minGasLimit          uint64 = 5000

	elasticityMultiplier      uint64 = 2
	baseFeeChangeDenominator  uint64 = 8
)

// CalcGasLimit homes the next block's gas limit toward desiredLimit by at
// most parentGasLimit/1024 per block, floored at minGasLimit. Grounded on
// engines.rs's Ethereum::calc_gas_limit.
func CalcGasLimit(parentGasLimit, desiredLimit uint64) uint64 {
	delta := parentGasLimit/gasLimitBoundDivisor - 1
	limit := parentGasLimit
	if desiredLimit < minGasLimit {
		desiredLimit = minGasLimit
	}
	if limit < desiredLimit {
		limit = parentGasLimit + delta
		if limit > desiredLimit {
			limit = desiredLimit
		}
		return limit
	}
	if limit > desiredLimit {
		limit = parentGasLimit - delta
		if limit < desiredLimit {
			limit = desiredLimit
		}
	}
	return limit
}

// CalcBaseFee applies the EIP-1559 base-fee curve: unchanged at the target,
// increases when the parent used more than the target, decreases otherwise,
// floored at zero. Grounded on engines.rs's Ethereum::calc_base_fee.
func CalcBaseFee(gasLimit, gasUsed uint64, baseFee *big.Int) *big.Int {
	parentGasTarget := gasLimit / elasticityMultiplier
	if gasUsed == parentGasTarget {
		return new(big.Int).Set(baseFee)
	}

	if gasUsed > parentGasTarget {
		num := new(big.Int).SetUint64(gasUsed - parentGasTarget)
		num.Mul(num, baseFee)
		num.Div(num, new(big.Int).SetUint64(parentGasTarget))
		num.Div(num, new(big.Int).SetUint64(baseFeeChangeDenominator))
		if num.Sign() == 0 {
			num.SetUint64(1)
		}
		return new(big.Int).Add(baseFee, num)
	}

	num := new(big.Int).SetUint64(parentGasTarget - gasUsed)
	num.Mul(num, baseFee)
	num.Div(num, new(big.Int).SetUint64(parentGasTarget))
	num.Div(num, new(big.Int).SetUint64(baseFeeChangeDenominator))
	next := new(big.Int).Sub(baseFee, num)
	if next.Sign() < 0 {
		next.SetUint64(0)
	}
	return next
}
