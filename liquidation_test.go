package tunagosdk_test

import (
	"math"
	"math/big"
	"testing"

	tunagosdk "github.com/DefiTuna/tuna-sdk-sub000"
	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/maths"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// ticks for prices 0.5 and 2.0
	tickHalf   = -6932
	tickDouble = 6932

	threshold83 = 830_000
)

// debtRatioAt values a position at price and returns debt / value.
func debtRatioAt(t *testing.T, price float64, liquidity *big.Int, leftoversA, debtA, debtB uint64) float64 {
	t.Helper()

	lower, err := maths.TickIndexToSqrtPrice(tickHalf)
	require.NoError(t, err)
	upper, err := maths.TickIndexToSqrtPrice(tickDouble)
	require.NoError(t, err)

	sqrtPrice, _ := new(big.Float).Mul(big.NewFloat(math.Sqrt(price)), new(big.Float).SetInt(maths.One)).Int(nil)
	amountA, amountB, err := helpers.GetAmountsForLiquidity(sqrtPrice, lower, upper, liquidity, false)
	require.NoError(t, err)

	value := float64(amountA+leftoversA)*price + float64(amountB)
	debt := float64(debtA)*price + float64(debtB)
	return debt / value
}

func TestGetLpPositionLiquidationPrices(t *testing.T) {
	liquidity := big.NewInt(1_000_000_000_000)

	t.Run("debt in B liquidates below", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, 0, 428_000_000_000, threshold83)
		require.NoError(t, err)
		assert.InDelta(t, 0.7990004857, prices.Lower, 1e-6)
		assert.Equal(t, 0.0, prices.Upper)

		assert.InDelta(t, 0.83, debtRatioAt(t, prices.Lower, liquidity, 0, 0, 428_000_000_000), 1e-6)
	})

	t.Run("debt in A liquidates above", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, 428_000_000_000, 0, threshold83)
		require.NoError(t, err)
		assert.Equal(t, 0.0, prices.Lower)
		assert.InDelta(t, 1.2515636946, prices.Upper, 1e-6)

		assert.InDelta(t, 0.83, debtRatioAt(t, prices.Upper, liquidity, 0, 428_000_000_000, 0), 1e-6)
	})

	t.Run("falls back to the one-sided solution below the range", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, 0, 100_000_000_000, threshold83)
		require.NoError(t, err)
		assert.InDelta(t, 0.1703825345, prices.Lower, 1e-6)
		assert.Less(t, prices.Lower, 0.5)
		assert.Equal(t, 0.0, prices.Upper)
	})

	t.Run("leftovers in A keep a B debt on the lower side", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 1_000_000_000_000, 0, 0, 1_100_000_000_000, threshold83)
		require.NoError(t, err)
		assert.InDelta(t, 0.8065505576, prices.Lower, 1e-6)
		assert.Equal(t, 0.0, prices.Upper)

		assert.InDelta(t, 0.83, debtRatioAt(t, prices.Lower, liquidity, 1_000_000_000_000, 0, 1_100_000_000_000), 1e-6)
	})

	t.Run("leftovers in A fall back below the range", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 1_000_000_000_000, 0, 0, 200_000_000_000, threshold83)
		require.NoError(t, err)
		assert.InDelta(t, 0.1411517657, prices.Lower, 1e-6)
		assert.Equal(t, 0.0, prices.Upper)

		assert.InDelta(t, 0.83, debtRatioAt(t, prices.Lower, liquidity, 1_000_000_000_000, 0, 200_000_000_000), 1e-6)
	})

	t.Run("more debt moves the liquidation price closer", func(t *testing.T) {
		previous := 0.0
		for _, debt := range []uint64{100_000_000_000, 300_000_000_000, 428_000_000_000, 500_000_000_000} {
			prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, 0, debt, threshold83)
			require.NoError(t, err)
			assert.Greater(t, prices.Lower, previous)
			previous = prices.Lower
		}
	})

	t.Run("more debt in A moves the upper price closer", func(t *testing.T) {
		previous := math.Inf(1)
		for _, debt := range []uint64{300_000_000_000, 400_000_000_000, 428_000_000_000, 500_000_000_000} {
			prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, debt, 0, threshold83)
			require.NoError(t, err)
			assert.Greater(t, prices.Upper, 0.0)
			assert.Less(t, prices.Upper, previous)
			previous = prices.Upper
		}
	})

	t.Run("no debt", func(t *testing.T) {
		prices, err := tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 10, 10, 0, 0, threshold83)
		require.NoError(t, err)
		assert.Equal(t, types.LiquidationPrices{}, prices)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := tunagosdk.GetLpPositionLiquidationPrices(tickDouble, tickHalf, liquidity, 0, 0, 0, 1, threshold83)
		assert.ErrorIs(t, err, types.ErrInvalidTickRange)

		_, err = tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickHalf, liquidity, 0, 0, 0, 1, threshold83)
		assert.ErrorIs(t, err, types.ErrInvalidTickRange)

		_, err = tunagosdk.GetLpPositionLiquidationPrices(tickHalf, tickDouble, liquidity, 0, 0, 0, 1, 1_000_000)
		assert.ErrorIs(t, err, types.ErrInvalidLiquidationThreshold)
	})
}

func TestGetSpotPositionLiquidationPrice(t *testing.T) {
	price, err := tunagosdk.GetSpotPositionLiquidationPrice(types.PoolTokenA, 1_000, 800, 800_000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, price, 1e-12)

	price, err = tunagosdk.GetSpotPositionLiquidationPrice(types.PoolTokenB, 1_000, 400, 800_000)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, price, 1e-12)

	price, err = tunagosdk.GetSpotPositionLiquidationPrice(types.PoolTokenA, 1_000, 0, 800_000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)

	_, err = tunagosdk.GetSpotPositionLiquidationPrice(types.PoolTokenA, 1_000, 1, 1_000_000)
	assert.ErrorIs(t, err, types.ErrInvalidLiquidationThreshold)
}
