package maths

import (
	"math/big"
	"math/bits"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
)

var (
	// One
	//   One = new(big.Int).Lsh(big.NewInt(1), constants.ScaleOffset)
	One = new(big.Int).Lsh(big.NewInt(1), constants.ScaleOffset)

	u128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// U256 converts a non-negative big.Int into a 256-bit word.
func U256(x *big.Int) (*uint256.Int, error) {
	if x == nil || x.Sign() < 0 {
		return nil, types.ErrTypeCastOverflow
	}
	z, overflow := uint256.FromBig(x)
	if overflow {
		return nil, types.ErrTypeCastOverflow
	}
	return z, nil
}

// U128 is U256 restricted to values that fit in 128 bits.
func U128(x *big.Int) (*uint256.Int, error) {
	if x == nil || x.Sign() < 0 || x.BitLen() > 128 {
		return nil, types.ErrTypeCastOverflow
	}
	z, _ := uint256.FromBig(x)
	return z, nil
}

func ToU64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, types.ErrTypeCastOverflow
	}
	return x.Uint64(), nil
}

func ToU128(x *uint256.Int) (*big.Int, error) {
	if x.BitLen() > 128 {
		return nil, types.ErrTypeCastOverflow
	}
	return x.ToBig(), nil
}

// IsU128 reports whether x is a valid u128 value.
func IsU128(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(u128Max) <= 0
}

func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, types.ErrMathOverflow
	}
	return sum, nil
}

func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, types.ErrMathUnderflow
	}
	return a - b, nil
}

func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, types.ErrMathOverflow
	}
	return lo, nil
}

// ShiftLeft fails instead of silently dropping high bits.
func ShiftLeft(x *uint256.Int, n uint) (*uint256.Int, error) {
	if x.IsZero() {
		return new(uint256.Int), nil
	}
	if uint(x.BitLen())+n > 256 {
		return nil, types.ErrMathOverflow
	}
	return new(uint256.Int).Lsh(x, n), nil
}

// MulShiftRight computes (x * y) >> shift.
func MulShiftRight(x, y *uint256.Int, shift uint, rounding types.Rounding) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, types.ErrMathOverflow
	}
	result := new(uint256.Int).Rsh(product, shift)
	if rounding == types.RoundingUp {
		back := new(uint256.Int).Lsh(result, shift)
		if !back.Eq(product) {
			result.AddUint64(result, 1)
		}
	}
	return result, nil
}
