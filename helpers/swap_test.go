package helpers_test

import (
	"math/big"
	"testing"

	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	testUtils "github.com/DefiTuna/tuna-sdk-sub000/internal/test/utils"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickArraySequence(t *testing.T) {
	arrays := testUtils.NewTickArrays(64, map[int32]int64{-640: 10, 128: -10})
	// shuffled input is sorted
	arrays[0], arrays[4] = arrays[4], arrays[0]

	sequence, err := helpers.NewTickArraySequence(arrays, 64)
	require.NoError(t, err)
	assert.Equal(t, int32(-2*64*88), sequence.StartIndex())
	assert.Equal(t, int32(3*64*88-1), sequence.EndIndex())

	tick, found, err := sequence.NextInitializedTick(0, true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(-640), tick)

	tick, found, err = sequence.NextInitializedTick(0, false)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(128), tick)

	tick, found, err = sequence.NextInitializedTick(128, false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int32(3*64*88-64), tick)

	_, _, err = sequence.NextInitializedTick(sequence.StartIndex()-1, true)
	assert.ErrorIs(t, err, types.ErrTickArraySequenceExhausted)

	_, err = helpers.NewTickArraySequence(nil, 64)
	assert.ErrorIs(t, err, types.ErrInvalidArguments)
}

func TestSwapQuote(t *testing.T) {
	liquidity := big.NewInt(1_000_000_000_000)
	pool := testUtils.NewPool(liquidity, 64, 3_000)
	arrays := testUtils.NewTickArrays(64, nil)

	t.Run("exact in a to b", func(t *testing.T) {
		quote, err := helpers.SwapQuoteByInputToken(1_000_000, true, pool, arrays)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), quote.AmountIn)
		assert.Equal(t, uint64(996_999), quote.AmountOut)
		assert.Equal(t, uint64(3_000), quote.FeeAmount)
		assert.Equal(t, int32(-1), quote.NextTickIndex)
		assert.Equal(t, -1, quote.NextSqrtPrice.Cmp(testUtils.Q64))
		assert.Greater(t, quote.PriceImpact, 0.0)
	})

	t.Run("exact in b to a", func(t *testing.T) {
		quote, err := helpers.SwapQuoteByInputToken(1_000_000, false, pool, arrays)
		require.NoError(t, err)
		assert.Equal(t, uint64(996_999), quote.AmountOut)
		assert.Equal(t, int32(0), quote.NextTickIndex)
		assert.Equal(t, 1, quote.NextSqrtPrice.Cmp(testUtils.Q64))
	})

	t.Run("exact out is covered by the quoted input", func(t *testing.T) {
		for _, aToB := range []bool{true, false} {
			out, err := helpers.SwapQuoteByOutputToken(1_000_000, aToB, pool, arrays)
			require.NoError(t, err)
			assert.Equal(t, uint64(1_000_000), out.AmountOut)
			assert.Equal(t, uint64(1_003_012), out.AmountIn)

			in, err := helpers.SwapQuoteByInputToken(out.AmountIn, aToB, pool, arrays)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, in.AmountOut, out.AmountOut)
		}
	})

	t.Run("crossing an initialized tick removes liquidity", func(t *testing.T) {
		crossing := testUtils.NewTickArrays(64, map[int32]int64{-640: 500_000_000_000})

		withCross, err := helpers.SwapQuoteByInputToken(200_000_000_000, true, pool, crossing)
		require.NoError(t, err)
		without, err := helpers.SwapQuoteByInputToken(200_000_000_000, true, pool, arrays)
		require.NoError(t, err)

		assert.Equal(t, uint64(149_789_847_222), withCross.AmountOut)
		assert.Equal(t, uint64(166_249_791_562), without.AmountOut)
		assert.Less(t, withCross.NextTickIndex, int32(-640))
	})

	t.Run("runs out of tick arrays", func(t *testing.T) {
		thin := testUtils.NewPool(big.NewInt(1_000), 64, 3_000)
		_, err := helpers.SwapQuoteByInputToken(1_000_000_000_000, true, thin, arrays)
		assert.ErrorIs(t, err, types.ErrTickArraySequenceExhausted)
	})
}
