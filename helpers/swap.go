package helpers

import (
	"errors"
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// ComputeSwapStep moves the price from currentSqrtPrice towards
// targetSqrtPrice within a single liquidity range. The fee is charged on the
// input side.
func ComputeSwapStep(
	amountRemaining uint64,
	feeRate uint16,
	liquidity, currentSqrtPrice, targetSqrtPrice *big.Int,
	amountSpecifiedIsInput, aToB bool,
) (types.SwapStep, error) {
	fee := uint64(feeRate)

	// amount needed to reach the target price
	var (
		fixedDelta uint64
		err        error
	)
	if amountSpecifiedIsInput {
		if aToB {
			fixedDelta, err = GetAmountDeltaA(targetSqrtPrice, currentSqrtPrice, liquidity, true)
		} else {
			fixedDelta, err = GetAmountDeltaB(currentSqrtPrice, targetSqrtPrice, liquidity, true)
		}
	} else {
		if aToB {
			fixedDelta, err = GetAmountDeltaB(targetSqrtPrice, currentSqrtPrice, liquidity, false)
		} else {
			fixedDelta, err = GetAmountDeltaA(currentSqrtPrice, targetSqrtPrice, liquidity, false)
		}
	}
	if errors.Is(err, types.ErrAmountExceedsMax) {
		fixedDelta, err = math.MaxUint64, nil
	}
	if err != nil {
		return types.SwapStep{}, err
	}

	amountCalc := amountRemaining
	if amountSpecifiedIsInput {
		amountCalc, err = maths.MulDivU64(amountRemaining, constants.FeeRateDenominator-fee, constants.FeeRateDenominator, types.RoundingDown)
		if err != nil {
			return types.SwapStep{}, err
		}
	}

	var nextSqrtPrice *big.Int
	if amountCalc >= fixedDelta {
		nextSqrtPrice = new(big.Int).Set(targetSqrtPrice)
	} else if amountSpecifiedIsInput {
		nextSqrtPrice, err = GetNextSqrtPriceFromInput(currentSqrtPrice, liquidity, amountCalc, aToB)
	} else {
		nextSqrtPrice, err = GetNextSqrtPriceFromOutput(currentSqrtPrice, liquidity, amountCalc, aToB)
	}
	if err != nil {
		return types.SwapStep{}, err
	}
	isMaxSwap := nextSqrtPrice.Cmp(targetSqrtPrice) == 0

	var amountIn, amountOut uint64
	if aToB {
		amountIn, err = GetAmountDeltaA(nextSqrtPrice, currentSqrtPrice, liquidity, true)
		if err == nil {
			amountOut, err = GetAmountDeltaB(nextSqrtPrice, currentSqrtPrice, liquidity, false)
		}
	} else {
		amountIn, err = GetAmountDeltaB(currentSqrtPrice, nextSqrtPrice, liquidity, true)
		if err == nil {
			amountOut, err = GetAmountDeltaA(currentSqrtPrice, nextSqrtPrice, liquidity, false)
		}
	}
	if err != nil {
		return types.SwapStep{}, err
	}

	if !amountSpecifiedIsInput && amountOut > amountRemaining {
		amountOut = amountRemaining
	}

	var feeAmount uint64
	if amountSpecifiedIsInput && !isMaxSwap {
		feeAmount = amountRemaining - amountIn
	} else {
		feeAmount, err = maths.MulDivU64(amountIn, fee, constants.FeeRateDenominator-fee, types.RoundingUp)
		if err != nil {
			return types.SwapStep{}, err
		}
	}

	return types.SwapStep{
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		NextSqrtPrice: nextSqrtPrice,
		FeeAmount:     feeAmount,
	}, nil
}

// SwapQuoteByInputToken simulates an exact-in swap of tokenIn across the
// supplied tick arrays.
func SwapQuoteByInputToken(
	tokenIn uint64, aToB bool,
	pool types.PoolState, tickArrays []types.TickArray,
) (types.SwapQuote, error) {
	return computeSwap(tokenIn, aToB, true, pool, tickArrays)
}

// SwapQuoteByOutputToken simulates an exact-out swap producing tokenOut.
func SwapQuoteByOutputToken(
	tokenOut uint64, aToB bool,
	pool types.PoolState, tickArrays []types.TickArray,
) (types.SwapQuote, error) {
	return computeSwap(tokenOut, aToB, false, pool, tickArrays)
}

func computeSwap(
	amount uint64, aToB, amountSpecifiedIsInput bool,
	pool types.PoolState, tickArrays []types.TickArray,
) (types.SwapQuote, error) {
	sequence, err := NewTickArraySequence(tickArrays, pool.TickSpacing)
	if err != nil {
		return types.SwapQuote{}, err
	}

	priceLimit := constants.MaxSqrtPrice
	if aToB {
		priceLimit = constants.MinSqrtPrice
	}

	currentSqrtPrice := Uint128ToBigInt(pool.SqrtPrice)
	currentTickIndex := pool.TickCurrentIndex
	liquidity := Uint128ToBigInt(pool.Liquidity)
	initialSqrtPrice := new(big.Int).Set(currentSqrtPrice)

	remaining := amount
	var amountIn, amountOut, feeAmount uint64

	for remaining > 0 && currentSqrtPrice.Cmp(priceLimit) != 0 {
		nextTickIndex, initialized, err := sequence.NextInitializedTick(currentTickIndex, aToB)
		if err != nil {
			return types.SwapQuote{}, err
		}
		nextTickSqrtPrice, err := maths.TickIndexToSqrtPrice(nextTickIndex)
		if err != nil {
			return types.SwapQuote{}, err
		}

		target := nextTickSqrtPrice
		if (aToB && target.Cmp(priceLimit) < 0) || (!aToB && target.Cmp(priceLimit) > 0) {
			target = priceLimit
		}

		step, err := ComputeSwapStep(remaining, pool.FeeRate, liquidity, currentSqrtPrice, target, amountSpecifiedIsInput, aToB)
		if err != nil {
			return types.SwapQuote{}, err
		}

		if step.AmountIn == 0 && step.AmountOut == 0 && step.FeeAmount == 0 &&
			step.NextSqrtPrice.Cmp(currentSqrtPrice) == 0 &&
			step.NextSqrtPrice.Cmp(nextTickSqrtPrice) != 0 {
			return types.SwapQuote{}, types.ErrInsufficientLiquidity
		}

		if amountSpecifiedIsInput {
			remaining -= step.AmountIn + step.FeeAmount
			amountIn += step.AmountIn + step.FeeAmount
			amountOut += step.AmountOut
		} else {
			remaining -= step.AmountOut
			amountOut += step.AmountOut
			amountIn += step.AmountIn + step.FeeAmount
		}
		feeAmount += step.FeeAmount

		if step.NextSqrtPrice.Cmp(nextTickSqrtPrice) == 0 {
			if initialized {
				tick, _ := sequence.Tick(nextTickIndex)
				net := Int128ToBigInt(tick.LiquidityNet)
				if aToB {
					net.Neg(net)
				}
				liquidity = new(big.Int).Add(liquidity, net)
				if liquidity.Sign() < 0 {
					return types.SwapQuote{}, types.ErrInsufficientLiquidity
				}
			}
			if aToB {
				currentTickIndex = nextTickIndex - 1
			} else {
				currentTickIndex = nextTickIndex
			}
		} else if step.NextSqrtPrice.Cmp(currentSqrtPrice) != 0 {
			currentTickIndex, err = maths.SqrtPriceToTickIndex(step.NextSqrtPrice)
			if err != nil {
				return types.SwapQuote{}, err
			}
		}
		currentSqrtPrice = step.NextSqrtPrice
	}

	if remaining > 0 {
		return types.SwapQuote{}, types.ErrInsufficientLiquidity
	}

	return types.SwapQuote{
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		FeeAmount:     feeAmount,
		NextSqrtPrice: currentSqrtPrice,
		NextTickIndex: currentTickIndex,
		PriceImpact:   GetPriceImpact(currentSqrtPrice, initialSqrtPrice),
	}, nil
}
