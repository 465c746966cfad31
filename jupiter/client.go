// Package jupiter quotes swaps through the Jupiter aggregator API.
package jupiter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	jupiterapi "github.com/ilkamo/jupiter-go/jupiter"
	"go.uber.org/zap"
)

var (
	ErrQuoteRequest = errors.New("jupiter quote request failed")
	ErrSwapRequest  = errors.New("jupiter swap request failed")
)

const (
	SwapModeExactIn  jupiterapi.GetQuoteParamsSwapMode = "ExactIn"
	SwapModeExactOut jupiterapi.GetQuoteParamsSwapMode = "ExactOut"
)

// Quote is an aggregator route summary. For exact-in routes
// OtherAmountThreshold is the minimum output, for exact-out routes the
// maximum input.
type Quote struct {
	InAmount             uint64
	OutAmount            uint64
	OtherAmountThreshold uint64
	PriceImpactPct       float64

	response *jupiterapi.QuoteResponse
}

type Client struct {
	api    *jupiterapi.ClientWithResponses
	logger *zap.Logger
}

// NewClient connects to url, or to the public endpoint when url is empty.
func NewClient(url string, logger *zap.Logger) (*Client, error) {
	if url == "" {
		url = jupiterapi.DefaultAPIURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := jupiterapi.NewClientWithResponses(url)
	if err != nil {
		return nil, fmt.Errorf("could not create jupiter client: %w", err)
	}
	return &Client{api: api, logger: logger.Named("jupiter")}, nil
}

func (c *Client) QuoteExactIn(
	ctx context.Context,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	slippageBps uint16,
) (Quote, error) {
	return c.quote(ctx, inputMint, outputMint, amount, slippageBps, SwapModeExactIn)
}

func (c *Client) QuoteExactOut(
	ctx context.Context,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	slippageBps uint16,
) (Quote, error) {
	return c.quote(ctx, inputMint, outputMint, amount, slippageBps, SwapModeExactOut)
}

func (c *Client) quote(
	ctx context.Context,
	inputMint, outputMint solana.PublicKey,
	amount uint64,
	slippageBps uint16,
	swapMode jupiterapi.GetQuoteParamsSwapMode,
) (Quote, error) {
	fields := []zap.Field{
		zap.Stringer("mint_in", inputMint),
		zap.Stringer("mint_out", outputMint),
		zap.Uint64("amount", amount),
		zap.String("swap_mode", string(swapMode)),
	}
	if amount > math.MaxInt64 {
		return Quote{}, fmt.Errorf("amount %d: %w", amount, ErrQuoteRequest)
	}

	slippage := jupiterapi.SlippageParameter(slippageBps)
	response, err := c.api.GetQuoteWithResponse(ctx, &jupiterapi.GetQuoteParams{
		InputMint:   inputMint.String(),
		OutputMint:  outputMint.String(),
		Amount:      int(amount),
		SlippageBps: &slippage,
		SwapMode:    &swapMode,
	})
	if err != nil {
		c.logger.Warn("quote request failed", append(fields, zap.Error(err))...)
		return Quote{}, fmt.Errorf("%w: %w", ErrQuoteRequest, err)
	}
	if response.JSON200 == nil {
		c.logger.Warn("unexpected quote response", append(fields, zap.Int("status", response.StatusCode()))...)
		return Quote{}, fmt.Errorf("%w: status %d: %s", ErrQuoteRequest, response.StatusCode(), response.Body)
	}

	quote, err := parseQuote(response.JSON200)
	if err != nil {
		c.logger.Warn("malformed quote response", append(fields, zap.Error(err))...)
		return Quote{}, fmt.Errorf("%w: %w", ErrQuoteRequest, err)
	}

	c.logger.Debug("quote received", append(fields,
		zap.Uint64("in_amount", quote.InAmount),
		zap.Uint64("out_amount", quote.OutAmount),
	)...)
	return quote, nil
}

func parseQuote(r *jupiterapi.QuoteResponse) (Quote, error) {
	inAmount, err := strconv.ParseUint(r.InAmount, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("in amount %q: %w", r.InAmount, err)
	}
	outAmount, err := strconv.ParseUint(r.OutAmount, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("out amount %q: %w", r.OutAmount, err)
	}
	threshold, err := strconv.ParseUint(r.OtherAmountThreshold, 10, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("other amount threshold %q: %w", r.OtherAmountThreshold, err)
	}
	var priceImpact float64
	if r.PriceImpactPct != "" {
		if priceImpact, err = strconv.ParseFloat(r.PriceImpactPct, 64); err != nil {
			return Quote{}, fmt.Errorf("price impact %q: %w", r.PriceImpactPct, err)
		}
	}

	return Quote{
		InAmount:             inAmount,
		OutAmount:            outAmount,
		OtherAmountThreshold: threshold,
		PriceImpactPct:       priceImpact,
		response:             r,
	}, nil
}

// SwapTransaction asks the aggregator to build the swap transaction for a
// quote previously returned by this client.
func (c *Client) SwapTransaction(ctx context.Context, quote Quote, userPublicKey solana.PublicKey) (*solana.Transaction, error) {
	if quote.response == nil {
		return nil, fmt.Errorf("%w: quote was not issued by the aggregator", ErrSwapRequest)
	}

	response, err := c.api.PostSwapWithResponse(ctx, jupiterapi.PostSwapJSONRequestBody{
		QuoteResponse: *quote.response,
		UserPublicKey: userPublicKey.String(),
	})
	if err != nil {
		c.logger.Warn("swap request failed", zap.Stringer("user", userPublicKey), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSwapRequest, err)
	}
	if response.JSON200 == nil {
		c.logger.Warn("unexpected swap response", zap.Stringer("user", userPublicKey), zap.Int("status", response.StatusCode()))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSwapRequest, response.StatusCode(), response.Body)
	}

	transaction := solana.Transaction{}
	if err := transaction.UnmarshalBase64(response.JSON200.SwapTransaction); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSwapRequest, err)
	}
	return &transaction, nil
}
