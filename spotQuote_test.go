package tunagosdk_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	tunagosdk "github.com/DefiTuna/tuna-sdk-sub000"
	"github.com/DefiTuna/tuna-sdk-sub000/jupiter"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	testUtils "github.com/DefiTuna/tuna-sdk-sub000/internal/test/utils"
)

type aggregatorCall struct {
	inputMint, outputMint solana.PublicKey
	amount                uint64
	exactIn               bool
}

type fakeAggregator struct {
	quote jupiter.Quote
	err   error
	calls []aggregatorCall
}

func (f *fakeAggregator) QuoteExactIn(_ context.Context, inputMint, outputMint solana.PublicKey, amount uint64, _ uint16) (jupiter.Quote, error) {
	f.calls = append(f.calls, aggregatorCall{inputMint, outputMint, amount, true})
	return f.quote, f.err
}

func (f *fakeAggregator) QuoteExactOut(_ context.Context, inputMint, outputMint solana.PublicKey, amount uint64, _ uint16) (jupiter.Quote, error) {
	f.calls = append(f.calls, aggregatorCall{inputMint, outputMint, amount, false})
	return f.quote, f.err
}

// price 1.0 pool with a 0.3% fee
func onChainSource() tunagosdk.OnChainSwapSource {
	return tunagosdk.OnChainSwapSource{
		Pool:       testUtils.NewPool(big.NewInt(1_000_000_000_000), 64, 3_000),
		TickArrays: testUtils.NewTickArrays(64, nil),
	}
}

func newTuna(t *testing.T, opts ...tunagosdk.Option) *tunagosdk.Tuna {
	t.Helper()
	tuna, err := tunagosdk.NewTuna(append([]tunagosdk.Option{tunagosdk.WithLogger(zaptest.NewLogger(t))}, opts...)...)
	require.NoError(t, err)
	return tuna
}

func TestGetIncreaseSpotPositionQuote(t *testing.T) {
	ctx := context.Background()
	tuna := newTuna(t)

	base := types.IncreaseSpotPositionQuoteArgs{
		IncreaseAmount:  1_000_000,
		CollateralToken: types.PoolTokenB,
		PositionToken:   types.PoolTokenA,
		Leverage:        2,
		SlippageBps:     100,
		MintA:           testUtils.MintA,
		MintB:           testUtils.MintB,
		SqrtPrice:       testUtils.Q64,
	}

	t.Run("collateral in the borrowed token", func(t *testing.T) {
		quote, err := tuna.GetIncreaseSpotPositionQuote(ctx, base, onChainSource())
		require.NoError(t, err)
		assert.Equal(t, uint64(500_000), quote.CollateralAmount)
		assert.Equal(t, uint64(500_000), quote.BorrowAmount)
		assert.Equal(t, uint64(1_000_000), quote.SwapInputAmount)
		assert.Equal(t, uint64(996_999), quote.EstimatedAmount)
		assert.Equal(t, uint64(987_029), quote.MinSwapOutputAmount)
		assert.Greater(t, quote.PriceImpact, 0.0)
	})

	t.Run("protocol fees", func(t *testing.T) {
		args := base
		args.ProtocolFeeRateOnCollateral = 1_000
		args.ProtocolFeeRate = 10_000

		quote, err := tuna.GetIncreaseSpotPositionQuote(ctx, args, onChainSource())
		require.NoError(t, err)
		assert.Zero(t, quote.ProtocolFeeA)
		assert.Equal(t, uint64(5_500), quote.ProtocolFeeB)
		assert.Equal(t, uint64(994_500), quote.SwapInputAmount)
		assert.Equal(t, uint64(991_515), quote.EstimatedAmount)
		assert.Equal(t, uint64(981_599), quote.MinSwapOutputAmount)
	})

	t.Run("collateral in the position token", func(t *testing.T) {
		args := base
		args.IncreaseAmount = 900_000
		args.CollateralToken = types.PoolTokenA
		args.Leverage = 3
		args.SlippageBps = 50

		quote, err := tuna.GetIncreaseSpotPositionQuote(ctx, args, onChainSource())
		require.NoError(t, err)
		assert.Equal(t, uint64(300_000), quote.CollateralAmount)
		assert.Equal(t, uint64(600_000), quote.BorrowAmount)
		assert.Equal(t, uint64(600_000), quote.SwapInputAmount)
		assert.Equal(t, uint64(898_199), quote.EstimatedAmount)
		assert.Equal(t, uint64(595_208), quote.MinSwapOutputAmount)
	})

	t.Run("no leverage no swap", func(t *testing.T) {
		args := base
		args.CollateralToken = types.PoolTokenA
		args.Leverage = 1

		quote, err := tuna.GetIncreaseSpotPositionQuote(ctx, args, tunagosdk.AggregatorSwapSource{})
		require.NoError(t, err)
		assert.Zero(t, quote.BorrowAmount)
		assert.Zero(t, quote.SwapInputAmount)
		assert.Equal(t, uint64(1_000_000), quote.EstimatedAmount)
	})

	t.Run("leverage below one", func(t *testing.T) {
		args := base
		args.Leverage = 0.5

		_, err := tuna.GetIncreaseSpotPositionQuote(ctx, args, onChainSource())
		assert.ErrorIs(t, err, types.ErrLeverageOutOfRange)
	})

	t.Run("pool of other mints", func(t *testing.T) {
		args := base
		args.MintA = solana.NewWallet().PublicKey()

		_, err := tuna.GetIncreaseSpotPositionQuote(ctx, args, onChainSource())
		assert.ErrorIs(t, err, types.ErrInvalidArguments)
	})

	t.Run("through the aggregator", func(t *testing.T) {
		aggregator := &fakeAggregator{quote: jupiter.Quote{InAmount: 1_000_000, OutAmount: 990_000, PriceImpactPct: 0.5}}
		tuna := newTuna(t, tunagosdk.WithAggregator(aggregator))

		quote, err := tuna.GetIncreaseSpotPositionQuote(ctx, base, tunagosdk.AggregatorSwapSource{})
		require.NoError(t, err)
		require.Len(t, aggregator.calls, 1)
		assert.Equal(t, aggregatorCall{testUtils.MintB, testUtils.MintA, 1_000_000, true}, aggregator.calls[0])
		assert.Equal(t, uint64(990_000), quote.EstimatedAmount)
		assert.Equal(t, uint64(980_100), quote.MinSwapOutputAmount)
		assert.Equal(t, 0.5, quote.PriceImpact)
	})

	t.Run("aggregator failure", func(t *testing.T) {
		aggregator := &fakeAggregator{err: fmt.Errorf("%w: status 500", jupiter.ErrQuoteRequest)}
		tuna := newTuna(t, tunagosdk.WithAggregator(aggregator))

		_, err := tuna.GetIncreaseSpotPositionQuote(ctx, base, tunagosdk.AggregatorSwapSource{})
		assert.ErrorIs(t, err, jupiter.ErrQuoteRequest)
	})

	t.Run("aggregator missing", func(t *testing.T) {
		_, err := tuna.GetIncreaseSpotPositionQuote(ctx, base, tunagosdk.AggregatorSwapSource{})
		assert.ErrorIs(t, err, tunagosdk.ErrNoAggregator)
	})
}

func TestGetDecreaseSpotPositionQuote(t *testing.T) {
	ctx := context.Background()
	tuna := newTuna(t)

	base := types.DecreaseSpotPositionQuoteArgs{
		CollateralToken: types.PoolTokenA,
		PositionToken:   types.PoolTokenA,
		PositionAmount:  1_000_000,
		PositionDebt:    500_000,
		SlippageBps:     100,
		MintA:           testUtils.MintA,
		MintB:           testUtils.MintB,
		SqrtPrice:       testUtils.Q64,
	}

	t.Run("collateral in the position token buys the debt", func(t *testing.T) {
		args := base
		args.DecreaseAmount = 250_000

		quote, err := tuna.GetDecreaseSpotPositionQuote(ctx, args, onChainSource())
		require.NoError(t, err)
		assert.Equal(t, uint32(250_000), quote.DecreasePercent)
		assert.Equal(t, uint64(125_000), quote.EstimatedPayableDebt)
		assert.False(t, quote.SwapExactIn)
		assert.Equal(t, uint64(125_378), quote.EstimatedSwapAmount)
		assert.Equal(t, uint64(126_632), quote.RequiredSwapAmount)
		assert.Equal(t, uint64(124_622), quote.EstimatedCollateralToBeWithdrawn)
		assert.Equal(t, uint64(750_000), quote.EstimatedAmount)
		assert.Equal(t, 2.0, quote.Leverage)
	})

	t.Run("collateral in the borrowed token sells the decrease", func(t *testing.T) {
		args := base
		args.CollateralToken = types.PoolTokenB
		args.DecreaseAmount = 500_000

		quote, err := tuna.GetDecreaseSpotPositionQuote(ctx, args, onChainSource())
		require.NoError(t, err)
		assert.Equal(t, uint32(500_000), quote.DecreasePercent)
		assert.Equal(t, uint64(250_000), quote.EstimatedPayableDebt)
		assert.True(t, quote.SwapExactIn)
		assert.Equal(t, uint64(498_499), quote.EstimatedSwapAmount)
		assert.Equal(t, uint64(493_514), quote.RequiredSwapAmount)
		assert.Equal(t, uint64(248_499), quote.EstimatedCollateralToBeWithdrawn)
		assert.Equal(t, uint64(500_000), quote.EstimatedAmount)
		assert.Equal(t, 2.0, quote.Leverage)
	})

	t.Run("decrease above the position closes it", func(t *testing.T) {
		args := base
		args.DecreaseAmount = 2_000_000

		quote, err := tuna.GetDecreaseSpotPositionQuote(ctx, args, onChainSource())
		require.NoError(t, err)
		assert.Equal(t, uint32(1_000_000), quote.DecreasePercent)
		assert.Equal(t, uint64(500_000), quote.EstimatedPayableDebt)
		assert.Zero(t, quote.EstimatedAmount)
		assert.Equal(t, 1.0, quote.Leverage)
	})

	t.Run("through the aggregator", func(t *testing.T) {
		aggregator := &fakeAggregator{quote: jupiter.Quote{InAmount: 126_000, OutAmount: 125_000}}
		tuna := newTuna(t, tunagosdk.WithAggregator(aggregator))

		args := base
		args.DecreaseAmount = 250_000

		quote, err := tuna.GetDecreaseSpotPositionQuote(ctx, args, tunagosdk.AggregatorSwapSource{})
		require.NoError(t, err)
		require.Len(t, aggregator.calls, 1)
		assert.Equal(t, aggregatorCall{testUtils.MintA, testUtils.MintB, 125_000, false}, aggregator.calls[0])
		assert.Equal(t, uint64(126_000), quote.EstimatedSwapAmount)
		assert.Equal(t, uint64(127_260), quote.RequiredSwapAmount)
	})

	t.Run("empty position", func(t *testing.T) {
		args := base
		args.PositionAmount = 0

		_, err := tuna.GetDecreaseSpotPositionQuote(ctx, args, onChainSource())
		assert.ErrorIs(t, err, types.ErrInvalidArguments)
	})
}

func TestNewTuna(t *testing.T) {
	_, err := tunagosdk.NewTuna(tunagosdk.WithAggregator(nil))
	assert.ErrorIs(t, err, tunagosdk.ErrNoAggregator)

	_, err = tunagosdk.NewTuna(tunagosdk.WithLogger(nil))
	assert.Error(t, err)

	tuna, err := tunagosdk.NewTuna()
	require.NoError(t, err)
	assert.NotNil(t, tuna)
}
