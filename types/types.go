package types

import (
	"fmt"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// PoolState is the snapshot of a concentrated-liquidity pool needed for quoting.
type PoolState struct {
	Address          solana.PublicKey
	MintA            solana.PublicKey
	MintB            solana.PublicKey
	TickSpacing      uint16
	FeeRate          uint16 // hundredths of a basis point
	SqrtPrice        ag_binary.Uint128
	TickCurrentIndex int32
	Liquidity        ag_binary.Uint128
}

type Tick struct {
	Initialized    bool
	LiquidityNet   ag_binary.Int128
	LiquidityGross ag_binary.Uint128
}

type TickArray struct {
	StartTickIndex int32
	Ticks          [constants.TickArraySize]Tick
}

// Market holds the per-pool risk and fee parameters. Rates are expressed in
// millionths (HundredPercent == 1.0).
type Market struct {
	Pool                          solana.PublicKey
	LiquidationThreshold          uint32
	MaxLeverage                   uint32
	ProtocolFee                   uint32
	ProtocolFeeOnCollateral       uint32
	MaxSwapSlippage               uint32
	OraclePriceDeviationThreshold uint32
	Disabled                      bool
}

func (m Market) Validate() error {
	if m.LiquidationThreshold >= constants.HundredPercent {
		return fmt.Errorf("market %s: %w", m.Pool, ErrInvalidLiquidationThreshold)
	}
	if m.MaxLeverage < constants.HundredPercent {
		return fmt.Errorf("market %s: max leverage below 1.0: %w", m.Pool, ErrInvalidArguments)
	}
	if m.ProtocolFee > constants.HundredPercent || m.ProtocolFeeOnCollateral > constants.HundredPercent {
		return fmt.Errorf("market %s: protocol fee above 100%%: %w", m.Pool, ErrInvalidArguments)
	}
	if m.MaxSwapSlippage > constants.HundredPercent {
		return fmt.Errorf("market %s: max swap slippage above 100%%: %w", m.Pool, ErrInvalidArguments)
	}
	return nil
}

type SwapStep struct {
	AmountIn      uint64
	AmountOut     uint64
	NextSqrtPrice *big.Int
	FeeAmount     uint64
}

type SwapQuote struct {
	AmountIn      uint64
	AmountOut     uint64
	FeeAmount     uint64
	NextSqrtPrice *big.Int
	NextTickIndex int32
	PriceImpact   float64
}

type IncreaseLpPositionQuoteArgs struct {
	// ComputedAmount in CollateralA (or CollateralB) asks for that side to be
	// derived from the other one.
	CollateralA                 uint64
	CollateralB                 uint64
	BorrowA                     uint64
	BorrowB                     uint64
	ProtocolFeeRate             uint32
	ProtocolFeeRateOnCollateral uint32
	SwapFeeRate                 uint32 // hundredths of a basis point
	SqrtPrice                   *big.Int
	TickLowerIndex              int32
	TickUpperIndex              int32
	LiquidationThreshold        uint32
}

type IncreaseLpPositionQuoteResult struct {
	CollateralA           uint64
	CollateralB           uint64
	BorrowA               uint64
	BorrowB               uint64
	TotalA                uint64
	TotalB                uint64
	SwapInput             uint64
	SwapOutput            uint64
	SwapAToB              bool
	ProtocolFeeA          uint64
	ProtocolFeeB          uint64
	Liquidity             *big.Int
	Leverage              float64
	LiquidationLowerPrice float64
	LiquidationUpperPrice float64
}

type RepayLpPositionDebtQuoteArgs struct {
	Liquidity            *big.Int
	SqrtPrice            *big.Int
	TickLowerIndex       int32
	TickUpperIndex       int32
	LeftoversA           uint64
	LeftoversB           uint64
	DebtA                uint64
	DebtB                uint64
	RepayA               uint64
	RepayB               uint64
	LiquidationThreshold uint32
}

type RepayLpPositionDebtQuoteResult struct {
	DebtA                 uint64
	DebtB                 uint64
	Leverage              float64
	LiquidationLowerPrice float64
	LiquidationUpperPrice float64
}

type DecreaseLpPositionQuoteArgs struct {
	Liquidity            *big.Int
	SqrtPrice            *big.Int
	TickLowerIndex       int32
	TickUpperIndex       int32
	LeftoversA           uint64
	LeftoversB           uint64
	DebtA                uint64
	DebtB                uint64
	WithdrawPercent      uint32
	SwapFeeRate          uint32
	LiquidationThreshold uint32
}

type DecreaseLpPositionQuoteResult struct {
	LiquidityDelta        *big.Int
	WithdrawnA            uint64
	WithdrawnB            uint64
	RepayA                uint64
	RepayB                uint64
	SwapInput             uint64
	SwapOutput            uint64
	SwapAToB              bool
	DebtA                 uint64
	DebtB                 uint64
	Leverage              float64
	LiquidationLowerPrice float64
	LiquidationUpperPrice float64
}

type LiquidationPrices struct {
	Lower float64
	Upper float64
}

type IncreaseSpotPositionQuoteArgs struct {
	// IncreaseAmount is denominated in the collateral token.
	IncreaseAmount              uint64
	CollateralToken             PoolToken
	PositionToken               PoolToken
	Leverage                    float64
	ProtocolFeeRate             uint32
	ProtocolFeeRateOnCollateral uint32
	SlippageBps                 uint16
	MintA                       solana.PublicKey
	MintB                       solana.PublicKey
	SqrtPrice                   *big.Int
}

type IncreaseSpotPositionQuoteResult struct {
	CollateralAmount    uint64
	BorrowAmount        uint64
	EstimatedAmount     uint64
	SwapInputAmount     uint64
	MinSwapOutputAmount uint64
	ProtocolFeeA        uint64
	ProtocolFeeB        uint64
	PriceImpact         float64
}

type DecreaseSpotPositionQuoteArgs struct {
	// DecreaseAmount is denominated in the collateral token.
	DecreaseAmount  uint64
	CollateralToken PoolToken
	PositionToken   PoolToken
	PositionAmount  uint64
	PositionDebt    uint64
	SlippageBps     uint16
	MintA           solana.PublicKey
	MintB           solana.PublicKey
	SqrtPrice       *big.Int
}

type DecreaseSpotPositionQuoteResult struct {
	DecreasePercent                  uint32
	EstimatedAmount                  uint64
	EstimatedPayableDebt             uint64
	EstimatedCollateralToBeWithdrawn uint64
	SwapExactIn                      bool
	// EstimatedSwapAmount is the expected output of an exact-in swap or the
	// expected input of an exact-out swap.
	EstimatedSwapAmount uint64
	// RequiredSwapAmount is the minimum accepted output for exact-in swaps and
	// the maximum accepted input for exact-out swaps.
	RequiredSwapAmount uint64
	Leverage           float64
	PriceImpact        float64
}
