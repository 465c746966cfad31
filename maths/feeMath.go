package maths

import (
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
)

// MulDiv computes x * y / denominator with a 256-bit intermediate product.
func MulDiv(x, y, denominator *uint256.Int, rounding types.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, types.ErrDivideByZero
	}
	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, types.ErrMathOverflow
	}

	div, mod := new(uint256.Int), new(uint256.Int)
	div.DivMod(product, denominator, mod)

	if rounding == types.RoundingUp && !mod.IsZero() {
		return div.AddUint64(div, 1), nil
	}

	return div, nil
}

// MulDivU64 is MulDiv over u64 operands, failing if the result leaves u64.
func MulDivU64(x, y, denominator uint64, rounding types.Rounding) (uint64, error) {
	r, err := MulDiv(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(denominator), rounding)
	if err != nil {
		return 0, err
	}
	return ToU64(r)
}
