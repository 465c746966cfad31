// Package position values leveraged positions against their vault debt.
package position

import (
	"fmt"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/DefiTuna/tuna-sdk-sub000/vault"
	"github.com/gagliardetto/solana-go"
)

// Position is the view shared by liquidity and spot positions.
type Position interface {
	GetPool() solana.PublicKey
	GetAuthority() solana.PublicKey
	GetMintA() solana.PublicKey
	GetMintB() solana.PublicKey
	// GetTotalBalance returns the token amounts held at sqrtPrice, leftovers excluded.
	GetTotalBalance(sqrtPrice *big.Int) (uint64, uint64, error)
	GetLeftovers() (uint64, uint64)
	GetLoanShares() (uint64, uint64)
	// HasBalance reports whether the position holds anything besides leftovers.
	HasBalance() bool
	IsLimitOrderReached(sqrtPrice *big.Int) (types.LimitOrderType, bool, error)
	IsLiquidatedOrClosed() bool
}

func checkVaults(p Position, vaultA, vaultB *vault.Vault) error {
	if vaultA == nil || vaultB == nil {
		return fmt.Errorf("missing vault: %w", types.ErrInvalidArguments)
	}
	if vaultA.Mint != p.GetMintA() {
		return fmt.Errorf("vault A mint %s does not match position mint %s: %w", vaultA.Mint, p.GetMintA(), types.ErrInvalidArguments)
	}
	if vaultB.Mint != p.GetMintB() {
		return fmt.Errorf("vault B mint %s does not match position mint %s: %w", vaultB.Mint, p.GetMintB(), types.ErrInvalidArguments)
	}
	return nil
}

// ComputeTotalAndDebt values the position and its debt in token B at
// sqrtPrice. Vaults are expected to be accrued by the caller. Debt rounds up.
func ComputeTotalAndDebt(p Position, sqrtPrice *big.Int, vaultA, vaultB *vault.Vault) (total, debt uint64, err error) {
	if err := checkVaults(p, vaultA, vaultB); err != nil {
		return 0, 0, err
	}

	balanceA, balanceB, err := p.GetTotalBalance(sqrtPrice)
	if err != nil {
		return 0, 0, err
	}
	leftoversA, leftoversB := p.GetLeftovers()

	totalA, err := maths.CheckedAdd(balanceA, leftoversA)
	if err != nil {
		return 0, 0, err
	}
	totalB, err := maths.CheckedAdd(balanceB, leftoversB)
	if err != nil {
		return 0, 0, err
	}
	totalAInB, err := helpers.ConvertAToB(totalA, sqrtPrice, types.RoundingDown)
	if err != nil {
		return 0, 0, err
	}
	if total, err = maths.CheckedAdd(totalAInB, totalB); err != nil {
		return 0, 0, err
	}

	loanSharesA, loanSharesB := p.GetLoanShares()
	debtA, err := vaultA.CalculateBorrowedFunds(loanSharesA, types.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	debtB, err := vaultB.CalculateBorrowedFunds(loanSharesB, types.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	debtAInB, err := helpers.ConvertAToB(debtA, sqrtPrice, types.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	if debt, err = maths.CheckedAdd(debtAInB, debtB); err != nil {
		return 0, 0, err
	}

	return total, debt, nil
}

// IsHealthy reports whether the debt to value ratio is within the market's
// liquidation threshold, along with that ratio in HundredPercent units.
func IsHealthy(p Position, sqrtPrice *big.Int, market types.Market, vaultA, vaultB *vault.Vault) (bool, uint64, error) {
	loanSharesA, loanSharesB := p.GetLoanShares()
	if (loanSharesA == 0 && loanSharesB == 0) || !p.HasBalance() {
		return true, 0, nil
	}
	if market.LiquidationThreshold >= constants.HundredPercent {
		return false, 0, types.ErrInvalidLiquidationThreshold
	}

	total, debt, err := ComputeTotalAndDebt(p, sqrtPrice, vaultA, vaultB)
	if err != nil {
		return false, 0, err
	}

	// debt * 100% <= total * threshold
	lhs := new(big.Int).Mul(new(big.Int).SetUint64(debt), big.NewInt(constants.HundredPercent))
	rhs := new(big.Int).Mul(new(big.Int).SetUint64(total), big.NewInt(int64(market.LiquidationThreshold)))
	healthy := lhs.Cmp(rhs) <= 0

	var ratio uint64
	if total != 0 {
		r := lhs.Quo(lhs, new(big.Int).SetUint64(total))
		if !r.IsUint64() {
			return false, 0, types.ErrTypeCastOverflow
		}
		ratio = r.Uint64()
	}

	return healthy, ratio, nil
}

// ComputeLeverage returns total / (total - debt), or exactly 1.0 when there
// is no debt.
func ComputeLeverage(p Position, sqrtPrice *big.Int, vaultA, vaultB *vault.Vault) (maths.Fixed, error) {
	if !p.HasBalance() {
		return maths.FixedOne(), nil
	}

	total, debt, err := ComputeTotalAndDebt(p, sqrtPrice, vaultA, vaultB)
	if err != nil {
		return maths.Fixed{}, err
	}
	if debt == 0 {
		return maths.FixedOne(), nil
	}
	if debt >= total {
		return maths.Fixed{}, types.ErrLeverageOutOfRange
	}

	return maths.FixedFromRatio(total, total-debt)
}

// PositionState tracks the terminal transitions shared by all positions.
type PositionState struct {
	State types.PositionState
}

func (s *PositionState) IsLiquidatedOrClosed() bool {
	return s.State != types.PositionStateNormal
}

func (s *PositionState) MarkLiquidated() error {
	if s.State != types.PositionStateNormal {
		return types.ErrInvalidStateTransition
	}
	s.State = types.PositionStateLiquidated
	return nil
}

func (s *PositionState) MarkClosedByLimitOrder() error {
	if s.State != types.PositionStateNormal {
		return types.ErrInvalidStateTransition
	}
	s.State = types.PositionStateClosedByLimitOrder
	return nil
}

// limitOrderReached compares sqrtPrice against optional boundaries. A nil
// boundary, or one sitting on the sqrt price bounds, is never reached.
func limitOrderReached(sqrtPrice, lower, upper *big.Int) (types.LimitOrderType, bool) {
	if lower != nil && lower.Cmp(constants.MinSqrtPrice) > 0 && sqrtPrice.Cmp(lower) <= 0 {
		return types.LimitOrderStopLoss, true
	}
	if upper != nil && upper.Cmp(constants.MaxSqrtPrice) < 0 && sqrtPrice.Cmp(upper) >= 0 {
		return types.LimitOrderTakeProfit, true
	}
	return 0, false
}

var (
	_ Position = (*LpPosition)(nil)
	_ Position = (*SpotPosition)(nil)
)
