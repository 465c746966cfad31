package tunagosdk

import (
	"fmt"
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

func bigToFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}

func thresholdToFloat(threshold uint32) (float64, error) {
	if threshold >= constants.HundredPercent {
		return 0, types.ErrInvalidLiquidationThreshold
	}
	return float64(threshold) / float64(constants.HundredPercent), nil
}

// GetLpPositionLiquidationPrices returns the prices (token B per token A,
// undecimalized) at which the debt of a liquidity position reaches the
// liquidation threshold. Zero means the position is never liquidated on that
// side.
//
// While the price stays inside the range both token amounts depend on √P and
// the condition debt = threshold * value is a quadratic in √P. Once the price
// leaves the range the position is one-sided and the condition is linear in P.
// Each boundary prefers the in-range root and falls back to the out-of-range
// solution independently.
func GetLpPositionLiquidationPrices(
	tickLowerIndex, tickUpperIndex int32,
	liquidity *big.Int,
	leftoversA, leftoversB uint64,
	debtA, debtB uint64,
	liquidationThreshold uint32,
) (types.LiquidationPrices, error) {
	if tickLowerIndex >= tickUpperIndex {
		return types.LiquidationPrices{}, types.ErrInvalidTickRange
	}
	th, err := thresholdToFloat(liquidationThreshold)
	if err != nil {
		return types.LiquidationPrices{}, err
	}
	if debtA == 0 && debtB == 0 {
		return types.LiquidationPrices{}, nil
	}

	lowerSqrtPrice, err := maths.TickIndexToSqrtPrice(tickLowerIndex)
	if err != nil {
		return types.LiquidationPrices{}, err
	}
	upperSqrtPrice, err := maths.TickIndexToSqrtPrice(tickUpperIndex)
	if err != nil {
		return types.LiquidationPrices{}, err
	}

	var (
		sl = maths.SqrtPriceToFloat(lowerSqrtPrice)
		su = maths.SqrtPriceToFloat(upperSqrtPrice)
		l  = bigToFloat(liquidity)
		la = float64(leftoversA)
		lb = float64(leftoversB)
		da = float64(debtA)
		db = float64(debtB)
	)

	insideLower, insideUpper := liquidationPricesInsideRange(sl, su, l, la, lb, da, db, th)
	outsideLower, outsideUpper := liquidationPricesOutsideRange(sl, su, l, la, lb, da, db, th)

	prices := types.LiquidationPrices{Lower: outsideLower, Upper: outsideUpper}
	if insideLower > 0 {
		prices.Lower = insideLower
	}
	if insideUpper > 0 {
		prices.Upper = insideUpper
	}

	return prices, nil
}

// liquidationPricesInsideRange solves, for sl <= s <= su,
//
// da*s² + db = th * ((L*(1/s - 1/su) + la)*s² + L*(s - sl) + lb)
//
// q(s) = (da - th*la + th*L/su)*s² - 2*th*L*s + (db - th*lb + th*L*sl) = 0
//
// q is positive where the position is unhealthy. A root where q falls as the
// price rises is the lower liquidation price, a root where it rises is the
// upper one.
func liquidationPricesInsideRange(sl, su, l, la, lb, da, db, th float64) (float64, float64) {
	a := da - th*la + th*l/su
	b := -2 * th * l
	c := db - th*lb + th*l*sl

	inRange := func(s float64) float64 {
		if s <= 0 || s < sl || s > su || math.IsNaN(s) || math.IsInf(s, 0) {
			return 0
		}
		return s * s
	}

	var roots []float64
	if a == 0 {
		if b == 0 {
			return 0, 0
		}
		roots = append(roots, -c/b)
	} else {
		discriminant := b*b - 4*a*c
		if discriminant < 0 {
			return 0, 0
		}
		sqrtD := math.Sqrt(discriminant)
		roots = append(roots, (-b-sqrtD)/(2*a), (-b+sqrtD)/(2*a))
	}

	var lower, upper float64
	for _, r := range roots {
		switch slope := 2*a*r + b; {
		case slope < 0:
			lower = inRange(r)
		case slope > 0:
			upper = inRange(r)
		}
	}
	return lower, upper
}

// liquidationPricesOutsideRange solves the one-sided cases, where the
// condition is linear in P.
//
// Below the range the position holds only token A:
//
// P = (th*lb - db) / (da - th*(L*(1/sl - 1/su) + la))
//
// Above the range it holds only token B:
//
// P = (th*(L*(su - sl) + lb) - db) / (da - th*la)
//
// A lower price needs the position to turn unhealthy as the price falls, so
// the slope (the denominator) must be negative. An upper price needs it
// positive.
func liquidationPricesOutsideRange(sl, su, l, la, lb, da, db, th float64) (float64, float64) {
	var lower, upper float64

	totalA := l*(1/sl-1/su) + la
	if slope := da - th*totalA; slope < 0 {
		p := (th*lb - db) / slope
		if p > 0 && p < sl*sl {
			lower = p
		}
	}

	totalB := l*(su-sl) + lb
	if slope := da - th*la; slope > 0 {
		p := (th*totalB - db) / slope
		if p > su*su && !math.IsInf(p, 0) {
			upper = p
		}
	}

	return lower, upper
}

// GetSpotPositionLiquidationPrice returns the price (token B per token A) at
// which a spot position holding amount of positionToken and owing debt of the
// other token gets liquidated.
//
// Long A: debtB = th * amount * P
//
// Long B: debtA * P = th * amount
func GetSpotPositionLiquidationPrice(
	positionToken types.PoolToken,
	amount, debt uint64,
	liquidationThreshold uint32,
) (float64, error) {
	th, err := thresholdToFloat(liquidationThreshold)
	if err != nil {
		return 0, err
	}
	if debt == 0 {
		return 0, nil
	}

	switch positionToken {
	case types.PoolTokenA:
		if amount == 0 || th == 0 {
			return 0, nil
		}
		return float64(debt) / (th * float64(amount)), nil
	case types.PoolTokenB:
		return th * float64(amount) / float64(debt), nil
	default:
		return 0, fmt.Errorf("position token %d: %w", positionToken, types.ErrInvalidArguments)
	}
}
