package maths

import (
	"math"
	"math/big"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
)

// Fixed is an unsigned Q64.64 fixed-point number. The zero value is 0.
type Fixed struct {
	bits uint256.Int
}

func FixedOne() Fixed {
	var f Fixed
	f.bits.Lsh(uint256.NewInt(1), constants.ScaleOffset)
	return f
}

func FixedFromUint64(v uint64) Fixed {
	var f Fixed
	f.bits.Lsh(uint256.NewInt(v), constants.ScaleOffset)
	return f
}

// FixedFromBits wraps raw Q64.64 bits.
func FixedFromBits(bits *big.Int) (Fixed, error) {
	b, err := U128(bits)
	if err != nil {
		return Fixed{}, err
	}
	return Fixed{bits: *b}, nil
}

// FixedFromRatio returns num / den.
func FixedFromRatio(num, den uint64) (Fixed, error) {
	if den == 0 {
		return Fixed{}, types.ErrDivideByZero
	}
	n := new(uint256.Int).Lsh(uint256.NewInt(num), constants.ScaleOffset)
	n.Div(n, uint256.NewInt(den))
	return fixedChecked(n)
}

// FixedFromFloat64 truncates v to Q64.64.
func FixedFromFloat64(v float64) (Fixed, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Fixed{}, types.ErrInvalidArguments
	}
	if v < 0 {
		return Fixed{}, types.ErrMathUnderflow
	}
	f := new(big.Float).SetFloat64(v)
	f.Mul(f, new(big.Float).SetInt(One))
	i, _ := f.Int(nil)
	return FixedFromBits(i)
}

func fixedChecked(v *uint256.Int) (Fixed, error) {
	if v.BitLen() > 128 {
		return Fixed{}, types.ErrMathOverflow
	}
	return Fixed{bits: *v}, nil
}

func (f Fixed) Add(g Fixed) (Fixed, error) {
	sum := new(uint256.Int).Add(&f.bits, &g.bits)
	return fixedChecked(sum)
}

func (f Fixed) Sub(g Fixed) (Fixed, error) {
	if f.bits.Lt(&g.bits) {
		return Fixed{}, types.ErrMathUnderflow
	}
	return Fixed{bits: *new(uint256.Int).Sub(&f.bits, &g.bits)}, nil
}

func (f Fixed) Mul(g Fixed) (Fixed, error) {
	r, err := MulShiftRight(&f.bits, &g.bits, constants.ScaleOffset, types.RoundingDown)
	if err != nil {
		return Fixed{}, err
	}
	return fixedChecked(r)
}

func (f Fixed) Div(g Fixed) (Fixed, error) {
	if g.bits.IsZero() {
		return Fixed{}, types.ErrDivideByZero
	}
	n := new(uint256.Int).Lsh(&f.bits, constants.ScaleOffset)
	return fixedChecked(n.Div(n, &g.bits))
}

func (f Fixed) MulUint64(n uint64) (Fixed, error) {
	r := new(uint256.Int).Mul(&f.bits, uint256.NewInt(n))
	return fixedChecked(r)
}

func (f Fixed) DivUint64(n uint64) (Fixed, error) {
	if n == 0 {
		return Fixed{}, types.ErrDivideByZero
	}
	return Fixed{bits: *new(uint256.Int).Div(&f.bits, uint256.NewInt(n))}, nil
}

// MulInt applies f to an integer amount: amount * f.
func (f Fixed) MulInt(amount uint64, rounding types.Rounding) (uint64, error) {
	r, err := MulShiftRight(uint256.NewInt(amount), &f.bits, constants.ScaleOffset, rounding)
	if err != nil {
		return 0, err
	}
	return ToU64(r)
}

func (f Fixed) Cmp(g Fixed) int {
	return f.bits.Cmp(&g.bits)
}

func (f Fixed) IsZero() bool {
	return f.bits.IsZero()
}

// Bits returns the raw Q64.64 representation.
func (f Fixed) Bits() *big.Int {
	return f.bits.ToBig()
}

func (f Fixed) Float64() float64 {
	r, _ := new(big.Float).Quo(new(big.Float).SetInt(f.bits.ToBig()), new(big.Float).SetInt(One)).Float64()
	return r
}

func (f Fixed) String() string {
	return new(big.Float).Quo(new(big.Float).SetInt(f.bits.ToBig()), new(big.Float).SetInt(One)).Text('f', 12)
}
