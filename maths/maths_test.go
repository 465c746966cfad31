package maths_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/DefiTuna/tuna-sdk-sub000/constants"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	t.Run("rounds according to mode", func(t *testing.T) {
		x, y, d := uint256.NewInt(10), uint256.NewInt(10), uint256.NewInt(3)

		down, err := maths.MulDiv(x, y, d, types.RoundingDown)
		require.NoError(t, err)
		up, err := maths.MulDiv(x, y, d, types.RoundingUp)
		require.NoError(t, err)

		assert.Equal(t, uint64(33), down.Uint64())
		assert.Equal(t, uint64(34), up.Uint64())
	})

	t.Run("exact division does not round up", func(t *testing.T) {
		r, err := maths.MulDiv(uint256.NewInt(6), uint256.NewInt(4), uint256.NewInt(8), types.RoundingUp)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), r.Uint64())
	})

	t.Run("divide by zero", func(t *testing.T) {
		_, err := maths.MulDiv(uint256.NewInt(1), uint256.NewInt(1), new(uint256.Int), types.RoundingDown)
		assert.ErrorIs(t, err, types.ErrDivideByZero)
	})

	t.Run("product overflow", func(t *testing.T) {
		big := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
		_, err := maths.MulDiv(big, big, uint256.NewInt(1), types.RoundingDown)
		assert.ErrorIs(t, err, types.ErrMathOverflow)
	})

	t.Run("u64 narrowing", func(t *testing.T) {
		_, err := maths.MulDivU64(math.MaxUint64, 2, 1, types.RoundingDown)
		assert.ErrorIs(t, err, types.ErrTypeCastOverflow)
	})
}

func TestCheckedOps(t *testing.T) {
	_, err := maths.CheckedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, types.ErrMathOverflow)

	_, err = maths.CheckedSub(1, 2)
	assert.ErrorIs(t, err, types.ErrMathUnderflow)

	_, err = maths.CheckedMul(1<<32, 1<<32)
	assert.ErrorIs(t, err, types.ErrMathOverflow)

	v, err := maths.CheckedMul(1<<31, 1<<32)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), v)

	_, err = maths.ShiftLeft(new(uint256.Int).Lsh(uint256.NewInt(1), 200), 64)
	assert.ErrorIs(t, err, types.ErrMathOverflow)

	s, err := maths.ShiftLeft(uint256.NewInt(1), 255)
	require.NoError(t, err)
	assert.Equal(t, 256, s.BitLen())
}

func TestFixed(t *testing.T) {
	t.Run("from float rejects non-finite values", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := maths.FixedFromFloat64(v)
			assert.ErrorIs(t, err, types.ErrInvalidArguments, "value %v", v)
		}

		f, err := maths.FixedFromFloat64(0.5)
		require.NoError(t, err)
		assert.Equal(t, 0.5, f.Float64())
	})

	t.Run("one", func(t *testing.T) {
		assert.Equal(t, maths.One, maths.FixedOne().Bits())
		assert.Equal(t, 1.0, maths.FixedOne().Float64())
	})

	t.Run("ratio and arithmetic", func(t *testing.T) {
		half, err := maths.FixedFromRatio(1, 2)
		require.NoError(t, err)
		quarter, err := half.Mul(half)
		require.NoError(t, err)
		assert.Equal(t, 0.25, quarter.Float64())

		sum, err := half.Add(quarter)
		require.NoError(t, err)
		assert.Equal(t, 0.75, sum.Float64())

		_, err = quarter.Sub(half)
		assert.ErrorIs(t, err, types.ErrMathUnderflow)

		two, err := maths.FixedOne().Div(half)
		require.NoError(t, err)
		assert.Equal(t, 0, two.Cmp(maths.FixedFromUint64(2)))
	})

	t.Run("applies to integers with rounding", func(t *testing.T) {
		third, err := maths.FixedFromRatio(1, 3)
		require.NoError(t, err)

		down, err := third.MulInt(100, types.RoundingDown)
		require.NoError(t, err)
		up, err := third.MulInt(100, types.RoundingUp)
		require.NoError(t, err)
		assert.Equal(t, uint64(33), down)
		assert.Equal(t, uint64(34), up)
	})

	t.Run("overflow past 128 bits", func(t *testing.T) {
		huge := maths.FixedFromUint64(math.MaxUint64)
		_, err := huge.Add(huge)
		assert.ErrorIs(t, err, types.ErrMathOverflow)
		_, err = huge.Mul(huge)
		assert.ErrorIs(t, err, types.ErrMathOverflow)
	})
}

func TestTickIndexToSqrtPrice(t *testing.T) {
	t.Run("tick zero is exactly one", func(t *testing.T) {
		s, err := maths.TickIndexToSqrtPrice(0)
		require.NoError(t, err)
		assert.Equal(t, maths.One, s)
	})

	t.Run("bounds", func(t *testing.T) {
		low, err := maths.TickIndexToSqrtPrice(constants.MinTickIndex)
		require.NoError(t, err)
		high, err := maths.TickIndexToSqrtPrice(constants.MaxTickIndex)
		require.NoError(t, err)

		assert.Equal(t, constants.MinSqrtPrice.String(), low.String())
		assert.Equal(t, constants.MaxSqrtPrice.String(), high.String())

		tick, err := maths.SqrtPriceToTickIndex(constants.MinSqrtPrice)
		require.NoError(t, err)
		assert.Equal(t, int32(constants.MinTickIndex), tick)
		tick, err = maths.SqrtPriceToTickIndex(constants.MaxSqrtPrice)
		require.NoError(t, err)
		assert.Equal(t, int32(constants.MaxTickIndex), tick)

		_, err = maths.TickIndexToSqrtPrice(constants.MaxTickIndex + 1)
		assert.ErrorIs(t, err, types.ErrTickOutOfBounds)
		_, err = maths.TickIndexToSqrtPrice(constants.MinTickIndex - 1)
		assert.ErrorIs(t, err, types.ErrTickOutOfBounds)
	})

	t.Run("known values", func(t *testing.T) {
		tests := []struct {
			tick     int32
			expected string
		}{
			{-100_000, "124324258982887573"},
			{-6_932, "13043699376587823073"},
			{-1, "18445821805675392311"},
			{1, "18447666387855959850"},
			{6_932, "26087872550306729021"},
			{13_863, "36892313634263738403"},
			{100_000, "2737055259406582257880"},
		}
		for _, tt := range tests {
			s, err := maths.TickIndexToSqrtPrice(tt.tick)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.String(), "tick %d", tt.tick)
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		prev, err := maths.TickIndexToSqrtPrice(-500)
		require.NoError(t, err)
		for tick := int32(-499); tick <= 500; tick++ {
			s, err := maths.TickIndexToSqrtPrice(tick)
			require.NoError(t, err)
			assert.Equal(t, 1, s.Cmp(prev), "tick %d", tick)
			prev = s
		}
	})
}

func TestSqrtPriceToTickIndex(t *testing.T) {
	for _, tick := range []int32{-200_000, -4_000, -1, 0, 1, 4_000, 200_000} {
		s, err := maths.TickIndexToSqrtPrice(tick)
		require.NoError(t, err)

		got, err := maths.SqrtPriceToTickIndex(s)
		require.NoError(t, err)
		assert.Equal(t, tick, got)

		got, err = maths.SqrtPriceToTickIndex(new(big.Int).Sub(s, big.NewInt(1)))
		require.NoError(t, err)
		assert.Equal(t, tick-1, got)
	}

	_, err := maths.SqrtPriceToTickIndex(big.NewInt(1))
	assert.ErrorIs(t, err, types.ErrSqrtPriceOutOfBounds)
}

func TestPriceConversion(t *testing.T) {
	t.Run("sqrt price of one with decimals", func(t *testing.T) {
		p := maths.SqrtPriceToPrice(maths.One, 9, 6)
		assert.True(t, decimal.NewFromInt(1000).Equal(p), p.String())
	})

	t.Run("round trip", func(t *testing.T) {
		price := decimal.RequireFromString("142.5731")
		s, err := maths.PriceToSqrtPrice(price, 9, 6)
		require.NoError(t, err)

		back := maths.SqrtPriceToPrice(s, 9, 6)
		diff, _ := back.Sub(price).Abs().Float64()
		assert.Less(t, diff, 1e-12)
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := maths.PriceToSqrtPrice(decimal.Zero, 6, 6)
		assert.ErrorIs(t, err, types.ErrSqrtPriceOutOfBounds)
	})

	t.Run("float price", func(t *testing.T) {
		two := new(big.Int).Lsh(big.NewInt(2), 64)
		assert.Equal(t, 4.0, maths.SqrtPriceToFloatPrice(two))
		assert.Equal(t, 2.0, maths.SqrtPriceToFloat(two))
	})
}
