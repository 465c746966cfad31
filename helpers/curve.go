package helpers

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
)

func orderSqrtPrices(sqrtPrice0, sqrtPrice1 *big.Int) (*big.Int, *big.Int) {
	if sqrtPrice0.Cmp(sqrtPrice1) > 0 {
		return sqrtPrice1, sqrtPrice0
	}
	return sqrtPrice0, sqrtPrice1
}

func toAmount(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, types.ErrAmountExceedsMax
	}
	return x.Uint64(), nil
}

// GetAmountDeltaA
//
// Δa = L * (1 / √P_lower - 1 / √P_upper)
//
// Δa = L * (√P_upper - √P_lower) / (√P_upper * √P_lower)
func GetAmountDeltaA(
	sqrtPrice0, sqrtPrice1, liquidity *big.Int,
	roundUp bool,
) (uint64, error) {
	lowerBig, upperBig := orderSqrtPrices(sqrtPrice0, sqrtPrice1)

	lower, err := maths.U128(lowerBig)
	if err != nil {
		return 0, err
	}
	upper, err := maths.U128(upperBig)
	if err != nil {
		return 0, err
	}
	l, err := maths.U128(liquidity)
	if err != nil {
		return 0, err
	}

	diff := new(uint256.Int).Sub(upper, lower)
	product, overflow := new(uint256.Int).MulOverflow(l, diff)
	if overflow {
		return 0, types.ErrMathOverflow
	}
	numerator, err := maths.ShiftLeft(product, constants.ScaleOffset)
	if err != nil {
		return 0, err
	}
	denominator := new(uint256.Int).Mul(lower, upper)
	if denominator.IsZero() {
		return 0, types.ErrDivideByZero
	}

	quotient, remainder := new(uint256.Int), new(uint256.Int)
	quotient.DivMod(numerator, denominator, remainder)
	if roundUp && !remainder.IsZero() {
		quotient.AddUint64(quotient, 1)
	}

	return toAmount(quotient)
}

// GetAmountDeltaB
//
// Δb = L * (√P_upper - √P_lower)
func GetAmountDeltaB(
	sqrtPrice0, sqrtPrice1, liquidity *big.Int,
	roundUp bool,
) (uint64, error) {
	lowerBig, upperBig := orderSqrtPrices(sqrtPrice0, sqrtPrice1)

	lower, err := maths.U128(lowerBig)
	if err != nil {
		return 0, err
	}
	upper, err := maths.U128(upperBig)
	if err != nil {
		return 0, err
	}
	l, err := maths.U128(liquidity)
	if err != nil {
		return 0, err
	}

	rounding := types.RoundingDown
	if roundUp {
		rounding = types.RoundingUp
	}
	result, err := maths.MulShiftRight(l, new(uint256.Int).Sub(upper, lower), constants.ScaleOffset, rounding)
	if err != nil {
		return 0, err
	}

	return toAmount(result)
}

// GetLiquidityFromA
//
// L = Δa * √P_upper * √P_lower / (√P_upper - √P_lower)
func GetLiquidityFromA(
	amountA uint64, sqrtPriceLower, sqrtPriceUpper *big.Int,
) (*big.Int, error) {
	lowerBig, upperBig := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)
	if lowerBig.Cmp(upperBig) == 0 {
		return nil, types.ErrZeroPriceRange
	}

	lower, err := maths.U128(lowerBig)
	if err != nil {
		return nil, err
	}
	upper, err := maths.U128(upperBig)
	if err != nil {
		return nil, err
	}

	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(amountA), lower)
	if !overflow {
		product, overflow = product.MulOverflow(product, upper)
	}
	if overflow {
		return nil, types.ErrMathOverflow
	}

	product.Rsh(product, constants.ScaleOffset)
	product.Div(product, new(uint256.Int).Sub(upper, lower))

	return maths.ToU128(product)
}

// GetLiquidityFromB
//
// L = Δb / (√P_upper - √P_lower)
func GetLiquidityFromB(
	amountB uint64, sqrtPriceLower, sqrtPriceUpper *big.Int,
) (*big.Int, error) {
	lowerBig, upperBig := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)
	if lowerBig.Cmp(upperBig) == 0 {
		return nil, types.ErrZeroPriceRange
	}

	numerator := new(big.Int).Lsh(new(big.Int).SetUint64(amountB), constants.ScaleOffset)
	liquidity := numerator.Quo(numerator, new(big.Int).Sub(upperBig, lowerBig))
	if !maths.IsU128(liquidity) {
		return nil, types.ErrTypeCastOverflow
	}

	return liquidity, nil
}

// GetLiquidityForAmounts returns the largest liquidity that amountA and
// amountB can fund over [sqrtPriceA, sqrtPriceB] at sqrtPrice.
func GetLiquidityForAmounts(
	sqrtPrice, sqrtPriceA, sqrtPriceB *big.Int,
	amountA, amountB uint64,
) (*big.Int, error) {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)
	if lower.Cmp(upper) == 0 {
		return nil, types.ErrZeroPriceRange
	}

	switch {
	case sqrtPrice.Cmp(lower) <= 0:
		return GetLiquidityFromA(amountA, lower, upper)
	case sqrtPrice.Cmp(upper) < 0:
		liquidityA, err := GetLiquidityFromA(amountA, sqrtPrice, upper)
		if err != nil {
			return nil, err
		}
		liquidityB, err := GetLiquidityFromB(amountB, lower, sqrtPrice)
		if err != nil {
			return nil, err
		}
		if liquidityA.Cmp(liquidityB) < 0 {
			return liquidityA, nil
		}
		return liquidityB, nil
	default:
		return GetLiquidityFromB(amountB, lower, upper)
	}
}

// GetAmountsForLiquidity returns the token amounts represented by liquidity
// over [sqrtPriceA, sqrtPriceB] at sqrtPrice.
func GetAmountsForLiquidity(
	sqrtPrice, sqrtPriceA, sqrtPriceB, liquidity *big.Int,
	roundUp bool,
) (amountA, amountB uint64, err error) {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)

	switch {
	case sqrtPrice.Cmp(lower) <= 0:
		amountA, err = GetAmountDeltaA(lower, upper, liquidity, roundUp)
	case sqrtPrice.Cmp(upper) < 0:
		amountA, err = GetAmountDeltaA(sqrtPrice, upper, liquidity, roundUp)
		if err != nil {
			return 0, 0, err
		}
		amountB, err = GetAmountDeltaB(lower, sqrtPrice, liquidity, roundUp)
	default:
		amountB, err = GetAmountDeltaB(lower, upper, liquidity, roundUp)
	}
	if err != nil {
		return 0, 0, err
	}

	return amountA, amountB, nil
}

// PositionRatio returns the share of a range position's value held in token A
// and token B at sqrtPrice, as Q64.64 fractions summing to one.
//
// valueA ∝ √P * (√P_upper - √P) / √P_upper
//
// valueB ∝ √P - √P_lower
func PositionRatio(
	sqrtPrice *big.Int, tickLowerIndex, tickUpperIndex int32,
) (ratioA, ratioB maths.Fixed, err error) {
	if tickLowerIndex >= tickUpperIndex {
		return maths.Fixed{}, maths.Fixed{}, types.ErrInvalidTickRange
	}
	lower, err := maths.TickIndexToSqrtPrice(tickLowerIndex)
	if err != nil {
		return maths.Fixed{}, maths.Fixed{}, err
	}
	upper, err := maths.TickIndexToSqrtPrice(tickUpperIndex)
	if err != nil {
		return maths.Fixed{}, maths.Fixed{}, err
	}

	switch {
	case sqrtPrice.Cmp(lower) <= 0:
		return maths.FixedOne(), maths.Fixed{}, nil
	case sqrtPrice.Cmp(upper) >= 0:
		return maths.Fixed{}, maths.FixedOne(), nil
	}

	valueA := new(big.Int).Mul(sqrtPrice, new(big.Int).Sub(upper, sqrtPrice))
	valueA.Quo(valueA, upper)
	valueB := new(big.Int).Sub(sqrtPrice, lower)

	total := new(big.Int).Add(valueA, valueB)
	bitsA := new(big.Int).Lsh(valueA, constants.ScaleOffset)
	bitsA.Quo(bitsA, total)

	ratioA, err = maths.FixedFromBits(bitsA)
	if err != nil {
		return maths.Fixed{}, maths.Fixed{}, err
	}
	ratioB, err = maths.FixedOne().Sub(ratioA)
	if err != nil {
		return maths.Fixed{}, maths.Fixed{}, err
	}

	return ratioA, ratioB, nil
}

// GetNextSqrtPriceFromInput
//
// aToB
//
// √P' = √P * L / (L + Δx*√P)
//
// bToA
//
// √P' = √P + Δy / L
func GetNextSqrtPriceFromInput(
	sqrtPrice, liquidity *big.Int, amount uint64,
	aToB bool,
) (*big.Int, error) {
	if amount == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	if liquidity.Sign() == 0 {
		return nil, types.ErrDivideByZero
	}

	amountBig := new(big.Int).SetUint64(amount)
	if aToB {
		numerator := new(big.Int).Lsh(liquidity, constants.ScaleOffset)
		denominator := new(big.Int).Add(numerator, new(big.Int).Mul(amountBig, sqrtPrice))
		product := new(big.Int).Mul(numerator, sqrtPrice)
		return ceilDiv(product, denominator), nil
	}

	quotient := new(big.Int).Lsh(amountBig, constants.ScaleOffset)
	quotient.Quo(quotient, liquidity)
	next := quotient.Add(quotient, sqrtPrice)
	if next.Cmp(constants.MaxSqrtPrice) > 0 {
		return nil, types.ErrSqrtPriceOutOfBounds
	}
	return next, nil
}

// GetNextSqrtPriceFromOutput
//
// aToB (token B out)
//
// √P' = √P - Δy / L
//
// bToA (token A out)
//
// √P' = √P * L / (L - Δx*√P)
func GetNextSqrtPriceFromOutput(
	sqrtPrice, liquidity *big.Int, amount uint64,
	aToB bool,
) (*big.Int, error) {
	if amount == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	if liquidity.Sign() == 0 {
		return nil, types.ErrDivideByZero
	}

	amountBig := new(big.Int).SetUint64(amount)
	if aToB {
		quotient := ceilDiv(new(big.Int).Lsh(amountBig, constants.ScaleOffset), liquidity)
		if quotient.Cmp(sqrtPrice) >= 0 {
			return nil, types.ErrSqrtPriceOutOfBounds
		}
		return quotient.Sub(sqrtPrice, quotient), nil
	}

	numerator := new(big.Int).Lsh(liquidity, constants.ScaleOffset)
	product := new(big.Int).Mul(amountBig, sqrtPrice)
	if product.Cmp(numerator) >= 0 {
		return nil, types.ErrInsufficientLiquidity
	}
	denominator := new(big.Int).Sub(numerator, product)
	return ceilDiv(new(big.Int).Mul(numerator, sqrtPrice), denominator), nil
}

func ceilDiv(x, y *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
