package position

import (
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
)

// SpotPosition is a leveraged single-token position. Debt is always taken in
// the token opposite to PositionToken.
type SpotPosition struct {
	PositionState

	Authority       solana.PublicKey
	Pool            solana.PublicKey
	MintA           solana.PublicKey
	MintB           solana.PublicKey
	PositionToken   types.PoolToken
	CollateralToken types.PoolToken
	Amount          uint64
	LoanShares      uint64

	// nil means unset.
	LowerLimitOrderSqrtPrice *big.Int
	UpperLimitOrderSqrtPrice *big.Int
}

func (p *SpotPosition) GetPool() solana.PublicKey      { return p.Pool }
func (p *SpotPosition) GetAuthority() solana.PublicKey { return p.Authority }
func (p *SpotPosition) GetMintA() solana.PublicKey     { return p.MintA }
func (p *SpotPosition) GetMintB() solana.PublicKey     { return p.MintB }

func (p *SpotPosition) GetTotalBalance(*big.Int) (uint64, uint64, error) {
	if p.PositionToken == types.PoolTokenA {
		return p.Amount, 0, nil
	}
	return 0, p.Amount, nil
}

func (p *SpotPosition) GetLeftovers() (uint64, uint64) {
	return 0, 0
}

func (p *SpotPosition) GetLoanShares() (uint64, uint64) {
	if p.PositionToken == types.PoolTokenA {
		return 0, p.LoanShares
	}
	return p.LoanShares, 0
}

func (p *SpotPosition) HasBalance() bool {
	return p.Amount > 0
}

func (p *SpotPosition) IsLimitOrderReached(sqrtPrice *big.Int) (types.LimitOrderType, bool, error) {
	orderType, reached := limitOrderReached(sqrtPrice, p.LowerLimitOrderSqrtPrice, p.UpperLimitOrderSqrtPrice)
	return orderType, reached, nil
}
