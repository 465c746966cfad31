package tunagosdk

import (
	"fmt"
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// floatToU64 truncates v toward zero.
func floatToU64(v float64) (uint64, error) {
	if math.IsNaN(v) || v < 0 || v >= math.MaxUint64 {
		return 0, types.ErrTypeCastOverflow
	}
	return uint64(v), nil
}

func checkSqrtPrice(sqrtPrice *big.Int) error {
	if sqrtPrice == nil || sqrtPrice.Cmp(constants.MinSqrtPrice) < 0 || sqrtPrice.Cmp(constants.MaxSqrtPrice) > 0 {
		return types.ErrSqrtPriceOutOfBounds
	}
	return nil
}

func rangeSqrtPrices(tickLowerIndex, tickUpperIndex int32) (*big.Int, *big.Int, error) {
	if tickLowerIndex >= tickUpperIndex {
		return nil, nil, types.ErrInvalidTickRange
	}
	lower, err := maths.TickIndexToSqrtPrice(tickLowerIndex)
	if err != nil {
		return nil, nil, err
	}
	upper, err := maths.TickIndexToSqrtPrice(tickUpperIndex)
	if err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

// computeLeverage returns total / (total - debt) with both sides valued in
// token B at price.
func computeLeverage(totalA, totalB, debtA, debtB uint64, price float64) (float64, error) {
	if debtA == 0 && debtB == 0 {
		return 1, nil
	}
	total := float64(totalA)*price + float64(totalB)
	debt := float64(debtA)*price + float64(debtB)
	if debt >= total {
		return 0, types.ErrLeverageOutOfRange
	}
	return total / (total - debt), nil
}

// splitComputedAmount derives collateral and borrow for the side left to the
// engine, keeping the collateral:borrow proportion of the known side.
func splitComputedAmount(amount, knownCollateral, knownBorrow uint64) (uint64, uint64, error) {
	known, err := maths.CheckedAdd(knownCollateral, knownBorrow)
	if err != nil {
		return 0, 0, err
	}
	if known == 0 || amount == 0 {
		return 0, 0, nil
	}
	collateral, err := maths.MulDivU64(amount, knownCollateral, known, types.RoundingDown)
	if err != nil {
		return 0, 0, err
	}
	return collateral, amount - collateral, nil
}

// positionTotals values a liquidity position at sqrtPrice, leftovers
// included.
func positionTotals(
	sqrtPrice, lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int,
	leftoversA, leftoversB uint64,
) (uint64, uint64, error) {
	amountA, amountB, err := helpers.GetAmountsForLiquidity(sqrtPrice, lowerSqrtPrice, upperSqrtPrice, liquidity, false)
	if err != nil {
		return 0, 0, err
	}
	if amountA, err = maths.CheckedAdd(amountA, leftoversA); err != nil {
		return 0, 0, err
	}
	if amountB, err = maths.CheckedAdd(amountB, leftoversB); err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

// GetIncreaseLpPositionQuote sizes a leveraged liquidity deposit.
//
// One side (collateral and borrow) may be left to the engine by passing
// constants.ComputedAmount as its collateral. Protocol fees are deducted from
// both sides, then the side holding more than the range needs at the current
// price is swapped down to its target before liquidity is computed.
func GetIncreaseLpPositionQuote(args types.IncreaseLpPositionQuoteArgs) (types.IncreaseLpPositionQuoteResult, error) {
	if err := checkSqrtPrice(args.SqrtPrice); err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	lowerSqrtPrice, upperSqrtPrice, err := rangeSqrtPrices(args.TickLowerIndex, args.TickUpperIndex)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	var (
		collateralA = args.CollateralA
		collateralB = args.CollateralB
		borrowA     = args.BorrowA
		borrowB     = args.BorrowB
		sqrtPrice   = args.SqrtPrice
	)

	switch {
	case collateralA == constants.ComputedAmount && collateralB == constants.ComputedAmount:
		return types.IncreaseLpPositionQuoteResult{}, fmt.Errorf("both collateral amounts are computed: %w", types.ErrInvalidArguments)

	case collateralA == constants.ComputedAmount:
		if sqrtPrice.Cmp(lowerSqrtPrice) <= 0 {
			return types.IncreaseLpPositionQuoteResult{}, fmt.Errorf("price at or below the range leaves no room for token A: %w", types.ErrInvalidArguments)
		}
		collateralA, borrowA = 0, 0
		if sqrtPrice.Cmp(upperSqrtPrice) < 0 {
			knownB, err := maths.CheckedAdd(collateralB, borrowB)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			liquidity, err := helpers.GetLiquidityFromB(knownB, lowerSqrtPrice, sqrtPrice)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			amountA, err := helpers.GetAmountDeltaA(sqrtPrice, upperSqrtPrice, liquidity, false)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			if collateralA, borrowA, err = splitComputedAmount(amountA, collateralB, borrowB); err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
		}

	case collateralB == constants.ComputedAmount:
		if sqrtPrice.Cmp(upperSqrtPrice) >= 0 {
			return types.IncreaseLpPositionQuoteResult{}, fmt.Errorf("price at or above the range leaves no room for token B: %w", types.ErrInvalidArguments)
		}
		collateralB, borrowB = 0, 0
		if sqrtPrice.Cmp(lowerSqrtPrice) > 0 {
			knownA, err := maths.CheckedAdd(collateralA, borrowA)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			liquidity, err := helpers.GetLiquidityFromA(knownA, sqrtPrice, upperSqrtPrice)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			amountB, err := helpers.GetAmountDeltaB(lowerSqrtPrice, sqrtPrice, liquidity, false)
			if err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
			if collateralB, borrowB, err = splitComputedAmount(amountB, collateralA, borrowA); err != nil {
				return types.IncreaseLpPositionQuoteResult{}, err
			}
		}
	}

	if borrowA == constants.ComputedAmount || borrowB == constants.ComputedAmount {
		return types.IncreaseLpPositionQuoteResult{}, fmt.Errorf("borrow amount cannot be computed on its own: %w", types.ErrInvalidArguments)
	}

	protocolFeeA, err := helpers.CalculateProtocolFee(collateralA, borrowA, args.ProtocolFeeRateOnCollateral, args.ProtocolFeeRate)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	protocolFeeB, err := helpers.CalculateProtocolFee(collateralB, borrowB, args.ProtocolFeeRateOnCollateral, args.ProtocolFeeRate)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	providedA, err := maths.CheckedAdd(collateralA, borrowA)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	providedB, err := maths.CheckedAdd(collateralB, borrowB)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	if providedA, err = maths.CheckedSub(providedA, protocolFeeA); err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	if providedB, err = maths.CheckedSub(providedB, protocolFeeB); err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	ratioA, ratioB, err := helpers.PositionRatio(sqrtPrice, args.TickLowerIndex, args.TickUpperIndex)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	var (
		fa    = ratioA.Float64()
		fb    = ratioB.Float64()
		price = maths.SqrtPriceToFloat(sqrtPrice)
	)
	price *= price

	targets := func(total uint64) (uint64, uint64, error) {
		a, err := floatToU64(float64(total) * fa / price)
		if err != nil {
			return 0, 0, err
		}
		b, err := floatToU64(float64(total) * fb)
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	}

	total, err := floatToU64(float64(providedA)*price + float64(providedB))
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	totalA, totalB, err := targets(total)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	var (
		swapInput, swapOutput uint64
		swapFeeA, swapFeeB    uint64
		swapAToB              bool
	)
	switch {
	case totalA < providedA:
		swapInput = providedA - totalA
		afterFee, err := helpers.ApplySwapFee(swapInput, args.SwapFeeRate)
		if err != nil {
			return types.IncreaseLpPositionQuoteResult{}, err
		}
		swapFeeA = swapInput - afterFee
		if swapOutput, err = floatToU64(float64(afterFee) * price); err != nil {
			return types.IncreaseLpPositionQuoteResult{}, err
		}
		swapAToB = true
	case totalB < providedB:
		swapInput = providedB - totalB
		afterFee, err := helpers.ApplySwapFee(swapInput, args.SwapFeeRate)
		if err != nil {
			return types.IncreaseLpPositionQuoteResult{}, err
		}
		swapFeeB = swapInput - afterFee
		if swapOutput, err = floatToU64(float64(afterFee) / price); err != nil {
			return types.IncreaseLpPositionQuoteResult{}, err
		}
	}

	valueA, err := floatToU64(float64(providedA-swapFeeA) * price)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	if total, err = maths.CheckedAdd(valueA, providedB-swapFeeB); err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	if totalA, totalB, err = targets(total); err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	liquidity, err := helpers.GetLiquidityForAmounts(sqrtPrice, lowerSqrtPrice, upperSqrtPrice, totalA, totalB)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	leverage, err := computeLeverage(totalA, totalB, borrowA, borrowB, price)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	usedA, usedB, err := helpers.GetAmountsForLiquidity(sqrtPrice, lowerSqrtPrice, upperSqrtPrice, liquidity, true)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}
	var leftoversA, leftoversB uint64
	if totalA > usedA {
		leftoversA = totalA - usedA
	}
	if totalB > usedB {
		leftoversB = totalB - usedB
	}

	prices, err := GetLpPositionLiquidationPrices(
		args.TickLowerIndex, args.TickUpperIndex,
		liquidity,
		leftoversA, leftoversB,
		borrowA, borrowB,
		args.LiquidationThreshold,
	)
	if err != nil {
		return types.IncreaseLpPositionQuoteResult{}, err
	}

	return types.IncreaseLpPositionQuoteResult{
		CollateralA:           collateralA,
		CollateralB:           collateralB,
		BorrowA:               borrowA,
		BorrowB:               borrowB,
		TotalA:                totalA,
		TotalB:                totalB,
		SwapInput:             swapInput,
		SwapOutput:            swapOutput,
		SwapAToB:              swapAToB,
		ProtocolFeeA:          protocolFeeA,
		ProtocolFeeB:          protocolFeeB,
		Liquidity:             liquidity,
		Leverage:              leverage,
		LiquidationLowerPrice: prices.Lower,
		LiquidationUpperPrice: prices.Upper,
	}, nil
}

// GetRepayLpPositionDebtQuote nets repayments against the position debt and
// revalues it at the unchanged liquidity.
func GetRepayLpPositionDebtQuote(args types.RepayLpPositionDebtQuoteArgs) (types.RepayLpPositionDebtQuoteResult, error) {
	if args.RepayA > args.DebtA {
		return types.RepayLpPositionDebtQuoteResult{}, fmt.Errorf("repay A %d exceeds debt %d: %w", args.RepayA, args.DebtA, types.ErrInvalidArguments)
	}
	if args.RepayB > args.DebtB {
		return types.RepayLpPositionDebtQuoteResult{}, fmt.Errorf("repay B %d exceeds debt %d: %w", args.RepayB, args.DebtB, types.ErrInvalidArguments)
	}
	if err := checkSqrtPrice(args.SqrtPrice); err != nil {
		return types.RepayLpPositionDebtQuoteResult{}, err
	}
	lowerSqrtPrice, upperSqrtPrice, err := rangeSqrtPrices(args.TickLowerIndex, args.TickUpperIndex)
	if err != nil {
		return types.RepayLpPositionDebtQuoteResult{}, err
	}

	debtA := args.DebtA - args.RepayA
	debtB := args.DebtB - args.RepayB

	totalA, totalB, err := positionTotals(args.SqrtPrice, lowerSqrtPrice, upperSqrtPrice, args.Liquidity, args.LeftoversA, args.LeftoversB)
	if err != nil {
		return types.RepayLpPositionDebtQuoteResult{}, err
	}
	leverage, err := computeLeverage(totalA, totalB, debtA, debtB, maths.SqrtPriceToFloatPrice(args.SqrtPrice))
	if err != nil {
		return types.RepayLpPositionDebtQuoteResult{}, err
	}

	prices, err := GetLpPositionLiquidationPrices(
		args.TickLowerIndex, args.TickUpperIndex,
		args.Liquidity,
		args.LeftoversA, args.LeftoversB,
		debtA, debtB,
		args.LiquidationThreshold,
	)
	if err != nil {
		return types.RepayLpPositionDebtQuoteResult{}, err
	}

	return types.RepayLpPositionDebtQuoteResult{
		DebtA:                 debtA,
		DebtB:                 debtB,
		Leverage:              leverage,
		LiquidationLowerPrice: prices.Lower,
		LiquidationUpperPrice: prices.Upper,
	}, nil
}

// GetDecreaseLpPositionQuote withdraws WithdrawPercent of the position and
// repays the same share of each debt from the withdrawn tokens. When one side
// falls short, the other side is swapped to cover it.
func GetDecreaseLpPositionQuote(args types.DecreaseLpPositionQuoteArgs) (types.DecreaseLpPositionQuoteResult, error) {
	if args.WithdrawPercent > constants.HundredPercent {
		return types.DecreaseLpPositionQuoteResult{}, fmt.Errorf("withdraw percent %d: %w", args.WithdrawPercent, types.ErrInvalidArguments)
	}
	if err := checkSqrtPrice(args.SqrtPrice); err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	lowerSqrtPrice, upperSqrtPrice, err := rangeSqrtPrices(args.TickLowerIndex, args.TickUpperIndex)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}

	pct := uint64(args.WithdrawPercent)
	share := func(amount uint64, rounding types.Rounding) (uint64, error) {
		return maths.MulDivU64(amount, pct, constants.HundredPercent, rounding)
	}

	liquidityDelta := new(big.Int).Mul(args.Liquidity, new(big.Int).SetUint64(pct))
	liquidityDelta.Quo(liquidityDelta, big.NewInt(constants.HundredPercent))

	withdrawnA, withdrawnB, err := helpers.GetAmountsForLiquidity(args.SqrtPrice, lowerSqrtPrice, upperSqrtPrice, liquidityDelta, false)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	leftoversA, err := share(args.LeftoversA, types.RoundingDown)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	leftoversB, err := share(args.LeftoversB, types.RoundingDown)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	if withdrawnA, err = maths.CheckedAdd(withdrawnA, leftoversA); err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	if withdrawnB, err = maths.CheckedAdd(withdrawnB, leftoversB); err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}

	repayA, err := share(args.DebtA, types.RoundingUp)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	repayB, err := share(args.DebtB, types.RoundingUp)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}

	var (
		swapInput, swapOutput uint64
		swapAToB              bool
	)
	switch {
	case withdrawnA < repayA:
		swapOutput = repayA - withdrawnA
		net, err := helpers.ConvertAToB(swapOutput, args.SqrtPrice, types.RoundingUp)
		if err != nil {
			return types.DecreaseLpPositionQuoteResult{}, err
		}
		if swapInput, err = helpers.ReverseApplySwapFee(net, args.SwapFeeRate); err != nil {
			return types.DecreaseLpPositionQuoteResult{}, err
		}
		if withdrawnB < repayB || swapInput > withdrawnB-repayB {
			return types.DecreaseLpPositionQuoteResult{}, fmt.Errorf("withdrawn tokens cannot cover debt: %w", types.ErrLeverageOutOfRange)
		}
		withdrawnA += swapOutput
		withdrawnB -= swapInput
	case withdrawnB < repayB:
		swapOutput = repayB - withdrawnB
		net, err := helpers.ConvertBToA(swapOutput, args.SqrtPrice, types.RoundingUp)
		if err != nil {
			return types.DecreaseLpPositionQuoteResult{}, err
		}
		if swapInput, err = helpers.ReverseApplySwapFee(net, args.SwapFeeRate); err != nil {
			return types.DecreaseLpPositionQuoteResult{}, err
		}
		if withdrawnA < repayA || swapInput > withdrawnA-repayA {
			return types.DecreaseLpPositionQuoteResult{}, fmt.Errorf("withdrawn tokens cannot cover debt: %w", types.ErrLeverageOutOfRange)
		}
		withdrawnA -= swapInput
		withdrawnB += swapOutput
		swapAToB = true
	}

	debtA := args.DebtA - repayA
	debtB := args.DebtB - repayB
	liquidity := new(big.Int).Sub(args.Liquidity, liquidityDelta)
	remainingLeftoversA := args.LeftoversA - leftoversA
	remainingLeftoversB := args.LeftoversB - leftoversB

	totalA, totalB, err := positionTotals(args.SqrtPrice, lowerSqrtPrice, upperSqrtPrice, liquidity, remainingLeftoversA, remainingLeftoversB)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	leverage, err := computeLeverage(totalA, totalB, debtA, debtB, maths.SqrtPriceToFloatPrice(args.SqrtPrice))
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}
	prices, err := GetLpPositionLiquidationPrices(
		args.TickLowerIndex, args.TickUpperIndex,
		liquidity,
		remainingLeftoversA, remainingLeftoversB,
		debtA, debtB,
		args.LiquidationThreshold,
	)
	if err != nil {
		return types.DecreaseLpPositionQuoteResult{}, err
	}

	return types.DecreaseLpPositionQuoteResult{
		LiquidityDelta:        liquidityDelta,
		WithdrawnA:            withdrawnA - repayA,
		WithdrawnB:            withdrawnB - repayB,
		RepayA:                repayA,
		RepayB:                repayB,
		SwapInput:             swapInput,
		SwapOutput:            swapOutput,
		SwapAToB:              swapAToB,
		DebtA:                 debtA,
		DebtB:                 debtB,
		Leverage:              leverage,
		LiquidationLowerPrice: prices.Lower,
		LiquidationUpperPrice: prices.Upper,
	}, nil
}
