package position

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
)

// LpPosition is a leveraged concentrated-liquidity position.
type LpPosition struct {
	PositionState

	Version   uint8
	Authority solana.PublicKey
	Pool      solana.PublicKey
	MintA     solana.PublicKey
	MintB     solana.PublicKey

	Liquidity      *big.Int
	TickLowerIndex int32
	TickUpperIndex int32
	LeftoversA     uint64
	LeftoversB     uint64
	LoanSharesA    uint64
	LoanSharesB    uint64

	// Limit orders by tick, used before LpPositionVersionSqrtPriceLimitOrders.
	// MinTickIndex and MaxTickIndex mean unset.
	TickStopLossIndex   int32
	TickTakeProfitIndex int32

	// Limit orders by sqrt price. nil means unset.
	LowerLimitOrderSqrtPrice *big.Int
	UpperLimitOrderSqrtPrice *big.Int
}

// NewLpPosition returns an open position with no limit orders set.
func NewLpPosition(authority, pool, mintA, mintB solana.PublicKey, tickLowerIndex, tickUpperIndex int32) (*LpPosition, error) {
	if tickLowerIndex >= tickUpperIndex {
		return nil, types.ErrInvalidTickRange
	}
	return &LpPosition{
		Version:             constants.LpPositionVersionSqrtPriceLimitOrders,
		Authority:           authority,
		Pool:                pool,
		MintA:               mintA,
		MintB:               mintB,
		Liquidity:           new(big.Int),
		TickLowerIndex:      tickLowerIndex,
		TickUpperIndex:      tickUpperIndex,
		TickStopLossIndex:   constants.MinTickIndex,
		TickTakeProfitIndex: constants.MaxTickIndex,
	}, nil
}

func (p *LpPosition) GetPool() solana.PublicKey      { return p.Pool }
func (p *LpPosition) GetAuthority() solana.PublicKey { return p.Authority }
func (p *LpPosition) GetMintA() solana.PublicKey     { return p.MintA }
func (p *LpPosition) GetMintB() solana.PublicKey     { return p.MintB }

func (p *LpPosition) GetLeftovers() (uint64, uint64) {
	return p.LeftoversA, p.LeftoversB
}

func (p *LpPosition) GetLoanShares() (uint64, uint64) {
	return p.LoanSharesA, p.LoanSharesB
}

func (p *LpPosition) HasBalance() bool {
	return p.Liquidity != nil && p.Liquidity.Sign() > 0
}

// RangeSqrtPrices returns the sqrt prices of the position's range boundaries.
func (p *LpPosition) RangeSqrtPrices() (*big.Int, *big.Int, error) {
	if p.TickLowerIndex >= p.TickUpperIndex {
		return nil, nil, types.ErrInvalidTickRange
	}
	lower, err := maths.TickIndexToSqrtPrice(p.TickLowerIndex)
	if err != nil {
		return nil, nil, err
	}
	upper, err := maths.TickIndexToSqrtPrice(p.TickUpperIndex)
	if err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

func (p *LpPosition) GetTotalBalance(sqrtPrice *big.Int) (uint64, uint64, error) {
	if !p.HasBalance() {
		return 0, 0, nil
	}
	lower, upper, err := p.RangeSqrtPrices()
	if err != nil {
		return 0, 0, err
	}
	return helpers.GetAmountsForLiquidity(sqrtPrice, lower, upper, p.Liquidity, false)
}

func (p *LpPosition) IsLimitOrderReached(sqrtPrice *big.Int) (types.LimitOrderType, bool, error) {
	if p.Version >= constants.LpPositionVersionSqrtPriceLimitOrders {
		orderType, reached := limitOrderReached(sqrtPrice, p.LowerLimitOrderSqrtPrice, p.UpperLimitOrderSqrtPrice)
		return orderType, reached, nil
	}

	var lower, upper *big.Int
	var err error
	if p.TickStopLossIndex > constants.MinTickIndex {
		if lower, err = maths.TickIndexToSqrtPrice(p.TickStopLossIndex); err != nil {
			return 0, false, err
		}
	}
	if p.TickTakeProfitIndex < constants.MaxTickIndex {
		if upper, err = maths.TickIndexToSqrtPrice(p.TickTakeProfitIndex); err != nil {
			return 0, false, err
		}
	}
	orderType, reached := limitOrderReached(sqrtPrice, lower, upper)
	return orderType, reached, nil
}
