// Package tunagosdk quotes leveraged liquidity and spot positions.
//
// Liquidity position quotes are pure functions. Spot position quotes may need
// a swap estimate, which is why they hang off the Tuna client.
package tunagosdk

import (
	"context"
	"errors"

	"github.com/DefiTuna/tuna-sdk-sub000/jupiter"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var ErrNoAggregator = errors.New("no swap aggregator configured")

// Aggregator quotes swaps off-chain. *jupiter.Client satisfies it.
type Aggregator interface {
	QuoteExactIn(ctx context.Context, inputMint, outputMint solana.PublicKey, amount uint64, slippageBps uint16) (jupiter.Quote, error)
	QuoteExactOut(ctx context.Context, inputMint, outputMint solana.PublicKey, amount uint64, slippageBps uint16) (jupiter.Quote, error)
}

var _ Aggregator = (*jupiter.Client)(nil)

type Tuna struct {
	aggregator Aggregator
	logger     *zap.Logger
}

type Option func(*Tuna) error

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tuna) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		t.logger = logger
		return nil
	}
}

func WithAggregator(aggregator Aggregator) Option {
	return func(t *Tuna) error {
		if aggregator == nil {
			return ErrNoAggregator
		}
		t.aggregator = aggregator
		return nil
	}
}

func NewTuna(opts ...Option) (*Tuna, error) {
	t := &Tuna{logger: zap.NewNop()}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.logger = t.logger.Named("tuna")
	return t, nil
}
