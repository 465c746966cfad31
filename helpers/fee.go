package helpers

import (
	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
)

// CalculateProtocolFee returns the protocol fee charged when opening or
// increasing a position. Collateral and borrowed funds are charged separately
// and each part is rounded up.
//
// fee = ⌈collateral * rateOnCollateral / 100%⌉ + ⌈borrow * rate / 100%⌉
func CalculateProtocolFee(
	collateralAmount, borrowAmount uint64,
	protocolFeeRateOnCollateral, protocolFeeRate uint32,
) (uint64, error) {
	if protocolFeeRateOnCollateral > constants.HundredPercent || protocolFeeRate > constants.HundredPercent {
		return 0, types.ErrInvalidArguments
	}

	collateralFee, err := maths.MulDivU64(collateralAmount, uint64(protocolFeeRateOnCollateral), constants.HundredPercent, types.RoundingUp)
	if err != nil {
		return 0, err
	}
	borrowFee, err := maths.MulDivU64(borrowAmount, uint64(protocolFeeRate), constants.HundredPercent, types.RoundingUp)
	if err != nil {
		return 0, err
	}

	return maths.CheckedAdd(collateralFee, borrowFee)
}

// ApplySwapFee returns the part of amount left after the AMM fee.
//
// feeRate is in hundredths of a basis point.
func ApplySwapFee(amount uint64, feeRate uint32) (uint64, error) {
	if feeRate >= constants.FeeRateDenominator {
		return 0, types.ErrInvalidArguments
	}
	fee, err := maths.MulDivU64(amount, uint64(feeRate), constants.FeeRateDenominator, types.RoundingUp)
	if err != nil {
		return 0, err
	}
	return amount - fee, nil
}

// ReverseApplySwapFee returns the gross amount that leaves amount after the
// AMM fee is taken.
func ReverseApplySwapFee(amount uint64, feeRate uint32) (uint64, error) {
	if feeRate >= constants.FeeRateDenominator {
		return 0, types.ErrInvalidArguments
	}
	return maths.MulDivU64(amount, constants.FeeRateDenominator, constants.FeeRateDenominator-uint64(feeRate), types.RoundingUp)
}
