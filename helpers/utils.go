package helpers

import (
	"fmt"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	ag_binary "github.com/gagliardetto/binary"
)

var twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)

// GetMinAmountWithSlippage calculates the minimum amount receivable after slippage is applied.
//
// - amount: The original amount of tokens.
//
// - slippageBps: The slippage tolerance in basis points (e.g., 50 for 0.5%).
// Example:
//
//	GetMinAmountWithSlippage(100000, 50) returns 99500 for 0.5% slippage.
func GetMinAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps > constants.BasisPointMax {
		return 0, types.ErrInvalidArguments
	}
	return maths.MulDivU64(amount, uint64(constants.BasisPointMax-slippageBps), constants.BasisPointMax, types.RoundingDown)
}

// GetMaxAmountWithSlippage is the input-side counterpart of GetMinAmountWithSlippage.
func GetMaxAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps > constants.BasisPointMax {
		return 0, types.ErrInvalidArguments
	}
	return maths.MulDivU64(amount, uint64(constants.BasisPointMax+uint64(slippageBps)), constants.BasisPointMax, types.RoundingUp)
}

func BigIntToUint128(b *big.Int) (ag_binary.Uint128, error) {
	if b.Sign() < 0 {
		return ag_binary.Uint128{}, fmt.Errorf("value must be unsigned")
	}

	if b.BitLen() > 128 {
		return ag_binary.Uint128{}, fmt.Errorf("value %s exceeds 128 bits", b.String())
	}

	var buf [16]byte
	b.FillBytes(buf[:]) // zero-pads on the left

	ag_binary.ReverseBytes(buf[:])

	var u ag_binary.Uint128
	if err := u.UnmarshalWithDecoder(ag_binary.NewBinDecoder(buf[:])); err != nil {
		return ag_binary.Uint128{}, err
	}
	return u, nil
}

// Must helper
func MustBigIntToUint128(b *big.Int) ag_binary.Uint128 {
	v, err := BigIntToUint128(b)
	if err != nil {
		panic(fmt.Errorf("cannot fit big.Int into Uint128: %s", err.Error()))
	}
	return v
}

func Uint128ToBigInt(v ag_binary.Uint128) *big.Int {
	hi := new(big.Int).Lsh(new(big.Int).SetUint64(v.Hi), 64)
	return hi.Or(hi, new(big.Int).SetUint64(v.Lo))
}

// Int128ToBigInt decodes a two's complement 128-bit value.
func Int128ToBigInt(v ag_binary.Int128) *big.Int {
	x := Uint128ToBigInt(ag_binary.Uint128{Lo: v.Lo, Hi: v.Hi})
	if v.Hi>>63 == 1 {
		x.Sub(x, twoPow128)
	}
	return x
}

// ConvertAToB values amountA in token B at sqrtPrice.
//
// b = a * (√P)^2 / 2^128
func ConvertAToB(amountA uint64, sqrtPrice *big.Int, rounding types.Rounding) (uint64, error) {
	product := new(big.Int).Mul(new(big.Int).SetUint64(amountA), sqrtPrice)
	product.Mul(product, sqrtPrice)
	return narrowQuotient(product, twoPow128, rounding)
}

// ConvertBToA values amountB in token A at sqrtPrice.
//
// a = b * 2^128 / (√P)^2
func ConvertBToA(amountB uint64, sqrtPrice *big.Int, rounding types.Rounding) (uint64, error) {
	if sqrtPrice.Sign() == 0 {
		return 0, types.ErrDivideByZero
	}
	numerator := new(big.Int).Lsh(new(big.Int).SetUint64(amountB), 128)
	return narrowQuotient(numerator, new(big.Int).Mul(sqrtPrice, sqrtPrice), rounding)
}

func narrowQuotient(numerator, denominator *big.Int, rounding types.Rounding) (uint64, error) {
	q, r := new(big.Int).QuoRem(numerator, denominator, new(big.Int))
	if rounding == types.RoundingUp && r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsUint64() {
		return 0, types.ErrMathOverflow
	}
	return q.Uint64(), nil
}

// GetPriceImpact returns the price move of a swap as a percentage.
//
// price_impact = |next² - current²| * 100 / current²
func GetPriceImpact(nextSqrtPrice, currentSqrtPrice *big.Int) float64 {
	currentSquared := new(big.Float).Mul(
		new(big.Float).SetInt(currentSqrtPrice),
		new(big.Float).SetInt(currentSqrtPrice),
	)

	diff := new(big.Float).Sub(
		new(big.Float).Mul(new(big.Float).SetInt(nextSqrtPrice), new(big.Float).SetInt(nextSqrtPrice)),
		currentSquared,
	)
	diff.Abs(diff)

	r, _ := new(big.Float).Mul(
		new(big.Float).Quo(diff, currentSquared),
		big.NewFloat(100),
	).Float64()

	return r
}
