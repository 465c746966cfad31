package maths

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/shopspring/decimal"
)

const floatPrec = 256

var q128 = new(big.Int).Lsh(big.NewInt(1), 128)

// SqrtPriceToPrice converts a Q64.64 sqrt price into a human price of token A
// in units of token B, adjusting for mint decimals.
//
// price = (sqrtPrice / 2^64)^2 * 10^(decimalsA - decimalsB)
func SqrtPriceToPrice(sqrtPrice *big.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	s := decimal.NewFromBigInt(sqrtPrice, 0)
	return s.Mul(s).
		DivRound(decimal.NewFromBigInt(q128, 0), 32).
		Shift(int32(decimalsA) - int32(decimalsB))
}

// PriceToSqrtPrice is the inverse of SqrtPriceToPrice, truncating to Q64.64.
func PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error) {
	if price.Sign() <= 0 {
		return nil, types.ErrSqrtPriceOutOfBounds
	}
	raw := price.Shift(int32(decimalsB) - int32(decimalsA))

	f, ok := new(big.Float).SetPrec(floatPrec).SetString(raw.String())
	if !ok {
		return nil, types.ErrInvalidArguments
	}
	f.Sqrt(f)
	f.Mul(f, new(big.Float).SetInt(One))

	r, _ := f.Int(nil)
	return r, nil
}

// SqrtPriceToFloat returns sqrtPrice / 2^64.
func SqrtPriceToFloat(sqrtPrice *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(sqrtPrice), new(big.Float).SetInt(One)).Float64()
	return f
}

// SqrtPriceToFloatPrice returns (sqrtPrice / 2^64)^2 without decimal adjustment.
func SqrtPriceToFloatPrice(sqrtPrice *big.Int) float64 {
	sq := new(big.Float).SetPrec(floatPrec).SetInt(new(big.Int).Mul(sqrtPrice, sqrtPrice))
	f, _ := sq.Quo(sq, new(big.Float).SetInt(q128)).Float64()
	return f
}
