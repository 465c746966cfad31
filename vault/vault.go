// Package vault models the lending vaults that fund leveraged positions.
//
// A Vault value is owned by the caller. Mutating methods update it in place
// and leave it untouched when they return an error.
package vault

import (
	"errors"
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
)

var (
	ErrSupplyLimitExceeded = errors.New("vault supply limit exceeded")
	ErrInsufficientFunds   = errors.New("insufficient vault funds")
)

type Vault struct {
	Mint            solana.PublicKey
	DepositedFunds  uint64
	DepositedShares uint64
	BorrowedFunds   uint64
	BorrowedShares  uint64
	// UnpaidDebtShares counts borrowed shares written off as bad debt.
	UnpaidDebtShares uint64
	// InterestRate is the per-second base rate as Q64.64 bits.
	InterestRate        uint64
	LastUpdateTimestamp uint64
	// SupplyLimit caps DepositedFunds, zero means no limit.
	SupplyLimit uint64
	// PythOraclePriceUpdate is carried through for callers, never read here.
	PythOraclePriceUpdate solana.PublicKey
}

// InterestRateFromAPR converts an annual rate (0.1 == 10%) into per-second
// Q64.64 bits suitable for Vault.InterestRate.
func InterestRateFromAPR(apr float64) (uint64, error) {
	perSecond, err := maths.FixedFromFloat64(apr / constants.SecondsPerYear)
	if err != nil {
		return 0, err
	}
	bits := perSecond.Bits()
	if !bits.IsUint64() {
		return 0, types.ErrTypeCastOverflow
	}
	return bits.Uint64(), nil
}

func (v *Vault) interestRate() maths.Fixed {
	f, _ := maths.FixedFromBits(new(big.Int).SetUint64(v.InterestRate))
	return f
}

// GetUtilization returns borrowed / deposited funds, or 1.0 for an empty vault.
func (v *Vault) GetUtilization() (maths.Fixed, error) {
	if v.DepositedFunds == 0 {
		return maths.FixedOne(), nil
	}
	return maths.FixedFromRatio(v.BorrowedFunds, v.DepositedFunds)
}

// AccrueInterest compounds interest up to timestamp.
//
// A vault without borrows only moves its clock. Otherwise accruals closer
// than MinAccrualInterval to the last update are skipped without touching
// the vault. The compounding factor is the Taylor expansion
//
//	e^r - 1 ≈ r + r²/2 + r³/6,	r = rate * multiplier(utilization) * elapsed
//
// and the resulting interest is added to both borrowed and deposited funds.
func (v *Vault) AccrueInterest(timestamp uint64, curve InterestRateCurve) error {
	elapsed, err := maths.CheckedSub(timestamp, v.LastUpdateTimestamp)
	if err != nil {
		return err
	}
	if v.BorrowedFunds == 0 {
		v.LastUpdateTimestamp = timestamp
		return nil
	}
	if elapsed < constants.MinAccrualInterval {
		return nil
	}

	interest, err := v.pendingInterest(elapsed, curve)
	if err != nil {
		return err
	}

	borrowed, err := maths.CheckedAdd(v.BorrowedFunds, interest)
	if err != nil {
		return err
	}
	deposited, err := maths.CheckedAdd(v.DepositedFunds, interest)
	if err != nil {
		return err
	}

	v.BorrowedFunds = borrowed
	v.DepositedFunds = deposited
	v.LastUpdateTimestamp = timestamp
	return nil
}

func (v *Vault) pendingInterest(elapsed uint64, curve InterestRateCurve) (uint64, error) {
	if curve == nil {
		curve = FlatCurve{}
	}
	utilization, err := v.GetUtilization()
	if err != nil {
		return 0, err
	}
	multiplier, err := curve.Multiplier(utilization)
	if err != nil {
		return 0, err
	}

	r, err := v.interestRate().MulUint64(elapsed)
	if err != nil {
		return 0, err
	}
	if r, err = r.Mul(multiplier); err != nil {
		return 0, err
	}

	r2, err := r.Mul(r)
	if err != nil {
		return 0, err
	}
	if r2, err = r2.DivUint64(2); err != nil {
		return 0, err
	}
	r3, err := r2.Mul(r)
	if err != nil {
		return 0, err
	}
	if r3, err = r3.DivUint64(3); err != nil {
		return 0, err
	}

	compounded, err := r.Add(r2)
	if err != nil {
		return 0, err
	}
	if compounded, err = compounded.Add(r3); err != nil {
		return 0, err
	}

	// debt is never under-counted
	return compounded.MulInt(v.BorrowedFunds, types.RoundingUp)
}

func (v *Vault) available() uint64 {
	if v.BorrowedFunds >= v.DepositedFunds {
		return 0
	}
	return v.DepositedFunds - v.BorrowedFunds
}

// Deposit adds funds and returns the minted shares, rounded down.
func (v *Vault) Deposit(funds uint64) (uint64, error) {
	shares, err := v.CalculateDepositedShares(funds, types.RoundingDown)
	if err != nil {
		return 0, err
	}
	deposited, err := maths.CheckedAdd(v.DepositedFunds, funds)
	if err != nil {
		return 0, err
	}
	if v.SupplyLimit != 0 && deposited > v.SupplyLimit {
		return 0, ErrSupplyLimitExceeded
	}
	totalShares, err := maths.CheckedAdd(v.DepositedShares, shares)
	if err != nil {
		return 0, err
	}

	v.DepositedFunds = deposited
	v.DepositedShares = totalShares
	return shares, nil
}

// Withdraw burns shares and returns the released funds, rounded down.
func (v *Vault) Withdraw(shares uint64) (uint64, error) {
	if shares > v.DepositedShares {
		return 0, types.ErrInvalidArguments
	}
	funds, err := v.CalculateDepositedFunds(shares, types.RoundingDown)
	if err != nil {
		return 0, err
	}
	if funds > v.available() {
		return 0, ErrInsufficientFunds
	}

	v.DepositedFunds -= funds
	v.DepositedShares -= shares
	return funds, nil
}

// Borrow lends funds and returns the debt shares, rounded up.
func (v *Vault) Borrow(funds uint64) (uint64, error) {
	if funds > v.available() {
		return 0, ErrInsufficientFunds
	}
	shares, err := v.CalculateBorrowedShares(funds, types.RoundingUp)
	if err != nil {
		return 0, err
	}
	totalShares, err := maths.CheckedAdd(v.BorrowedShares, shares)
	if err != nil {
		return 0, err
	}

	v.BorrowedFunds += funds
	v.BorrowedShares = totalShares
	return shares, nil
}

// Repay pays back funds and returns the burned debt shares, rounded down.
func (v *Vault) Repay(funds uint64) (uint64, error) {
	if funds > v.BorrowedFunds {
		return 0, types.ErrInvalidArguments
	}
	shares, err := v.CalculateBorrowedShares(funds, types.RoundingDown)
	if err != nil {
		return 0, err
	}
	if funds == v.BorrowedFunds {
		shares = v.BorrowedShares
	}
	if shares > v.BorrowedShares {
		return 0, types.ErrInvalidArguments
	}

	v.BorrowedFunds -= funds
	v.BorrowedShares -= shares
	return shares, nil
}

// WriteOffBadDebt removes debt shares that will never be repaid. The
// corresponding funds are taken from depositors.
func (v *Vault) WriteOffBadDebt(shares uint64) (uint64, error) {
	if shares > v.BorrowedShares {
		return 0, types.ErrInvalidArguments
	}
	funds, err := v.CalculateBorrowedFunds(shares, types.RoundingUp)
	if err != nil {
		return 0, err
	}
	funds = min(funds, v.BorrowedFunds, v.DepositedFunds)
	unpaid, err := maths.CheckedAdd(v.UnpaidDebtShares, shares)
	if err != nil {
		return 0, err
	}

	v.BorrowedShares -= shares
	v.BorrowedFunds -= funds
	v.DepositedFunds -= funds
	v.UnpaidDebtShares = unpaid
	return funds, nil
}

// GetBorrowAPY estimates the annualized borrow rate at the current
// utilization.
func (v *Vault) GetBorrowAPY(curve InterestRateCurve) (float64, error) {
	if curve == nil {
		curve = FlatCurve{}
	}
	utilization, err := v.GetUtilization()
	if err != nil {
		return 0, err
	}
	multiplier, err := curve.Multiplier(utilization)
	if err != nil {
		return 0, err
	}
	perSecond := v.interestRate().Float64() * multiplier.Float64()
	return math.Expm1(perSecond * constants.SecondsPerYear), nil
}

// GetSupplyAPY estimates the annualized depositor yield.
func (v *Vault) GetSupplyAPY(curve InterestRateCurve) (float64, error) {
	borrowAPY, err := v.GetBorrowAPY(curve)
	if err != nil {
		return 0, err
	}
	if v.DepositedFunds == 0 {
		return 0, nil
	}
	utilization := math.Min(float64(v.BorrowedFunds)/float64(v.DepositedFunds), 1)
	return borrowAPY * utilization, nil
}
