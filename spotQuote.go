package tunagosdk

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
)

func checkPoolToken(token types.PoolToken) error {
	if token != types.PoolTokenA && token != types.PoolTokenB {
		return fmt.Errorf("pool token %d: %w", token, types.ErrInvalidArguments)
	}
	return nil
}

func mintOf(token types.PoolToken, mintA, mintB solana.PublicKey) solana.PublicKey {
	if token == types.PoolTokenA {
		return mintA
	}
	return mintB
}

// convertToken values amount of token from in units of the other token.
func convertToken(amount uint64, from types.PoolToken, sqrtPrice *big.Int, rounding types.Rounding) (uint64, error) {
	if from == types.PoolTokenA {
		return helpers.ConvertAToB(amount, sqrtPrice, rounding)
	}
	return helpers.ConvertBToA(amount, sqrtPrice, rounding)
}

// GetIncreaseSpotPositionQuote sizes a leveraged spot increase.
//
// IncreaseAmount is split into collateral and borrow so that
// (collateral + borrow) / collateral == Leverage. Protocol fees are taken from
// both parts and whatever is not already in the position token is swapped
// into it through source.
func (t *Tuna) GetIncreaseSpotPositionQuote(
	ctx context.Context,
	args types.IncreaseSpotPositionQuoteArgs,
	source SwapSource,
) (types.IncreaseSpotPositionQuoteResult, error) {
	if err := checkPoolToken(args.CollateralToken); err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}
	if err := checkPoolToken(args.PositionToken); err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}
	if math.IsNaN(args.Leverage) || args.Leverage < 1 {
		return types.IncreaseSpotPositionQuoteResult{}, fmt.Errorf("leverage %v: %w", args.Leverage, types.ErrLeverageOutOfRange)
	}
	if err := checkSqrtPrice(args.SqrtPrice); err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}

	borrowedToken := args.PositionToken.Opposite()

	borrowInCollateral, err := floatToU64(math.Ceil(float64(args.IncreaseAmount) * (args.Leverage - 1) / args.Leverage))
	if err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}
	if borrowInCollateral > args.IncreaseAmount {
		return types.IncreaseSpotPositionQuoteResult{}, fmt.Errorf("borrow exceeds increase amount: %w", types.ErrLeverageOutOfRange)
	}
	collateral := args.IncreaseAmount - borrowInCollateral

	borrow := borrowInCollateral
	if args.CollateralToken != borrowedToken {
		if borrow, err = convertToken(borrowInCollateral, args.CollateralToken, args.SqrtPrice, types.RoundingUp); err != nil {
			return types.IncreaseSpotPositionQuoteResult{}, err
		}
	}

	collateralFee, err := helpers.CalculateProtocolFee(collateral, 0, args.ProtocolFeeRateOnCollateral, args.ProtocolFeeRate)
	if err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}
	borrowFee, err := helpers.CalculateProtocolFee(0, borrow, args.ProtocolFeeRateOnCollateral, args.ProtocolFeeRate)
	if err != nil {
		return types.IncreaseSpotPositionQuoteResult{}, err
	}

	var fees [2]uint64
	fees[args.CollateralToken] += collateralFee
	fees[borrowedToken] += borrowFee

	collateralNet := collateral - collateralFee
	swapInput := borrow - borrowFee
	var estimated uint64
	if args.CollateralToken == borrowedToken {
		swapInput += collateralNet
	} else {
		estimated = collateralNet
	}

	result := types.IncreaseSpotPositionQuoteResult{
		CollateralAmount: collateral,
		BorrowAmount:     borrow,
		SwapInputAmount:  swapInput,
		ProtocolFeeA:     fees[types.PoolTokenA],
		ProtocolFeeB:     fees[types.PoolTokenB],
	}

	if swapInput > 0 {
		swap, err := t.quoteSwap(
			ctx, source,
			mintOf(borrowedToken, args.MintA, args.MintB),
			mintOf(args.PositionToken, args.MintA, args.MintB),
			swapInput, true, args.SlippageBps,
		)
		if err != nil {
			return types.IncreaseSpotPositionQuoteResult{}, err
		}
		if estimated, err = maths.CheckedAdd(estimated, swap.AmountOut); err != nil {
			return types.IncreaseSpotPositionQuoteResult{}, err
		}
		if result.MinSwapOutputAmount, err = helpers.GetMinAmountWithSlippage(swap.AmountOut, args.SlippageBps); err != nil {
			return types.IncreaseSpotPositionQuoteResult{}, err
		}
		result.PriceImpact = swap.PriceImpact
	}
	result.EstimatedAmount = estimated

	return result, nil
}

// GetDecreaseSpotPositionQuote sizes a partial or full spot close.
//
// DecreaseAmount is converted to position token units and capped at the
// position size. The same share of debt is repaid. When the collateral is the
// position token, only enough is sold to buy the debt (exact-out). Otherwise
// the whole decrease is sold for the borrowed token (exact-in) and the surplus
// over the debt is withdrawn.
func (t *Tuna) GetDecreaseSpotPositionQuote(
	ctx context.Context,
	args types.DecreaseSpotPositionQuoteArgs,
	source SwapSource,
) (types.DecreaseSpotPositionQuoteResult, error) {
	if err := checkPoolToken(args.CollateralToken); err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}
	if err := checkPoolToken(args.PositionToken); err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}
	if args.PositionAmount == 0 {
		return types.DecreaseSpotPositionQuoteResult{}, fmt.Errorf("empty position: %w", types.ErrInvalidArguments)
	}
	if err := checkSqrtPrice(args.SqrtPrice); err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}

	borrowedToken := args.PositionToken.Opposite()
	positionMint := mintOf(args.PositionToken, args.MintA, args.MintB)
	borrowedMint := mintOf(borrowedToken, args.MintA, args.MintB)

	decrease := args.DecreaseAmount
	if args.CollateralToken != args.PositionToken {
		var err error
		if decrease, err = convertToken(args.DecreaseAmount, args.CollateralToken, args.SqrtPrice, types.RoundingDown); err != nil {
			return types.DecreaseSpotPositionQuoteResult{}, err
		}
	}

	decreasePercent := uint64(constants.HundredPercent)
	decreased := args.PositionAmount
	if decrease < args.PositionAmount {
		var err error
		if decreasePercent, err = maths.MulDivU64(decrease, constants.HundredPercent, args.PositionAmount, types.RoundingDown); err != nil {
			return types.DecreaseSpotPositionQuoteResult{}, err
		}
		if decreased, err = maths.MulDivU64(args.PositionAmount, decreasePercent, constants.HundredPercent, types.RoundingDown); err != nil {
			return types.DecreaseSpotPositionQuoteResult{}, err
		}
	}
	payableDebt, err := maths.MulDivU64(args.PositionDebt, decreasePercent, constants.HundredPercent, types.RoundingUp)
	if err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}

	result := types.DecreaseSpotPositionQuoteResult{
		DecreasePercent:      uint32(decreasePercent),
		EstimatedAmount:      args.PositionAmount - decreased,
		EstimatedPayableDebt: payableDebt,
	}

	if args.CollateralToken == args.PositionToken {
		var sold uint64
		if payableDebt > 0 {
			swap, err := t.quoteSwap(ctx, source, positionMint, borrowedMint, payableDebt, false, args.SlippageBps)
			if err != nil {
				return types.DecreaseSpotPositionQuoteResult{}, err
			}
			if swap.AmountIn > decreased {
				return types.DecreaseSpotPositionQuoteResult{}, fmt.Errorf("decrease cannot cover debt: %w", types.ErrLeverageOutOfRange)
			}
			sold = swap.AmountIn
			if result.RequiredSwapAmount, err = helpers.GetMaxAmountWithSlippage(swap.AmountIn, args.SlippageBps); err != nil {
				return types.DecreaseSpotPositionQuoteResult{}, err
			}
			result.PriceImpact = swap.PriceImpact
		}
		result.EstimatedSwapAmount = sold
		result.EstimatedCollateralToBeWithdrawn = decreased - sold
	} else {
		result.SwapExactIn = true
		var received uint64
		if decreased > 0 {
			swap, err := t.quoteSwap(ctx, source, positionMint, borrowedMint, decreased, true, args.SlippageBps)
			if err != nil {
				return types.DecreaseSpotPositionQuoteResult{}, err
			}
			received = swap.AmountOut
			if result.RequiredSwapAmount, err = helpers.GetMinAmountWithSlippage(swap.AmountOut, args.SlippageBps); err != nil {
				return types.DecreaseSpotPositionQuoteResult{}, err
			}
			result.PriceImpact = swap.PriceImpact
		}
		if received < payableDebt {
			return types.DecreaseSpotPositionQuoteResult{}, fmt.Errorf("decrease cannot cover debt: %w", types.ErrLeverageOutOfRange)
		}
		result.EstimatedSwapAmount = received
		result.EstimatedCollateralToBeWithdrawn = received - payableDebt
	}

	remainingDebt, err := convertToken(args.PositionDebt-payableDebt, borrowedToken, args.SqrtPrice, types.RoundingUp)
	if err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}
	if result.Leverage, err = computeLeverage(0, result.EstimatedAmount, 0, remainingDebt, 1); err != nil {
		return types.DecreaseSpotPositionQuoteResult{}, err
	}

	return result, nil
}
