package vault

import (
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// FundsToShares converts funds into shares at the totalShares/totalFunds
// exchange rate. An empty pool (totalFunds == 0) converts 1:1.
func FundsToShares(funds, totalFunds, totalShares uint64, rounding types.Rounding) (uint64, error) {
	if totalFunds == 0 {
		return funds, nil
	}
	return maths.MulDivU64(funds, totalShares, totalFunds, rounding)
}

// SharesToFunds is the inverse of FundsToShares. An empty pool
// (totalShares == 0) converts 1:1.
func SharesToFunds(shares, totalFunds, totalShares uint64, rounding types.Rounding) (uint64, error) {
	if totalShares == 0 {
		return shares, nil
	}
	return maths.MulDivU64(shares, totalFunds, totalShares, rounding)
}

func (v *Vault) CalculateDepositedShares(funds uint64, rounding types.Rounding) (uint64, error) {
	return FundsToShares(funds, v.DepositedFunds, v.DepositedShares, rounding)
}

func (v *Vault) CalculateDepositedFunds(shares uint64, rounding types.Rounding) (uint64, error) {
	return SharesToFunds(shares, v.DepositedFunds, v.DepositedShares, rounding)
}

func (v *Vault) CalculateBorrowedShares(funds uint64, rounding types.Rounding) (uint64, error) {
	return FundsToShares(funds, v.BorrowedFunds, v.BorrowedShares, rounding)
}

func (v *Vault) CalculateBorrowedFunds(shares uint64, rounding types.Rounding) (uint64, error) {
	return SharesToFunds(shares, v.BorrowedFunds, v.BorrowedShares, rounding)
}
