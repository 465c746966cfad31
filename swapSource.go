package tunagosdk

import (
	"context"
	"fmt"

	"github.com/DefiTuna/tuna-sdk-sub000/helpers"
	"github.com/DefiTuna/tuna-sdk-sub000/types"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// SwapSource selects how spot quotes estimate their swap.
type SwapSource interface {
	swapSource() string
}

// OnChainSwapSource simulates the swap against the pool's own tick arrays.
// The result is exact for the block the state was read at.
type OnChainSwapSource struct {
	Pool       types.PoolState
	TickArrays []types.TickArray
}

// AggregatorSwapSource asks the client's aggregator for a route. The result
// is a network estimate and may not be reproducible.
type AggregatorSwapSource struct{}

func (OnChainSwapSource) swapSource() string    { return "on_chain" }
func (AggregatorSwapSource) swapSource() string { return "aggregator" }

type swapEstimate struct {
	AmountIn    uint64
	AmountOut   uint64
	PriceImpact float64
}

func (t *Tuna) quoteSwap(
	ctx context.Context,
	source SwapSource,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	exactIn bool,
	slippageBps uint16,
) (swapEstimate, error) {
	if source == nil {
		return swapEstimate{}, fmt.Errorf("swap source: %w", types.ErrInvalidArguments)
	}
	t.logger.Debug("quoting swap",
		zap.String("source", source.swapSource()),
		zap.Stringer("mint_in", inputMint),
		zap.Stringer("mint_out", outputMint),
		zap.Uint64("amount", amount),
		zap.Bool("exact_in", exactIn),
	)

	switch s := source.(type) {
	case OnChainSwapSource:
		return quoteOnChain(s, inputMint, outputMint, amount, exactIn)
	case *OnChainSwapSource:
		return quoteOnChain(*s, inputMint, outputMint, amount, exactIn)
	case AggregatorSwapSource, *AggregatorSwapSource:
		return t.quoteAggregator(ctx, inputMint, outputMint, amount, exactIn, slippageBps)
	default:
		return swapEstimate{}, fmt.Errorf("swap source %T: %w", source, types.ErrInvalidArguments)
	}
}

func quoteOnChain(
	source OnChainSwapSource,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	exactIn bool,
) (swapEstimate, error) {
	pool := source.Pool
	aToB := inputMint.Equals(pool.MintA) && outputMint.Equals(pool.MintB)
	bToA := inputMint.Equals(pool.MintB) && outputMint.Equals(pool.MintA)
	if !aToB && !bToA {
		return swapEstimate{}, fmt.Errorf("pool %s does not trade %s for %s: %w", pool.Address, inputMint, outputMint, types.ErrInvalidArguments)
	}

	var (
		quote types.SwapQuote
		err   error
	)
	if exactIn {
		quote, err = helpers.SwapQuoteByInputToken(amount, aToB, pool, source.TickArrays)
	} else {
		quote, err = helpers.SwapQuoteByOutputToken(amount, aToB, pool, source.TickArrays)
	}
	if err != nil {
		return swapEstimate{}, err
	}

	return swapEstimate{
		AmountIn:    quote.AmountIn,
		AmountOut:   quote.AmountOut,
		PriceImpact: quote.PriceImpact,
	}, nil
}

func (t *Tuna) quoteAggregator(
	ctx context.Context,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	exactIn bool,
	slippageBps uint16,
) (swapEstimate, error) {
	if t.aggregator == nil {
		return swapEstimate{}, ErrNoAggregator
	}

	quoteFn := t.aggregator.QuoteExactOut
	if exactIn {
		quoteFn = t.aggregator.QuoteExactIn
	}
	quote, err := quoteFn(ctx, inputMint, outputMint, amount, slippageBps)
	if err != nil {
		t.logger.Warn("aggregator quote failed",
			zap.Stringer("mint_in", inputMint),
			zap.Stringer("mint_out", outputMint),
			zap.Uint64("amount", amount),
			zap.Error(err),
		)
		return swapEstimate{}, err
	}

	return swapEstimate{
		AmountIn:    quote.InAmount,
		AmountOut:   quote.OutAmount,
		PriceImpact: quote.PriceImpactPct,
	}, nil
}
