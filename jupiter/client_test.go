package jupiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DefiTuna/tuna-sdk-sub000/jupiter"
	testUtils "github.com/DefiTuna/tuna-sdk-sub000/internal/test/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const quoteBody = `{
	"inputMint": "So11111111111111111111111111111111111111112",
	"inAmount": "1000000",
	"outputMint": "EPjFWdd5AufqSSqeM2qZxF3iHaAZQKSaD5RD6YEmW6ma",
	"outAmount": "1995000",
	"otherAmountThreshold": "1985025",
	"swapMode": "ExactIn",
	"slippageBps": 50,
	"priceImpactPct": "0.0012",
	"routePlan": []
}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			http.NotFound(w, r)
			return
		}
		query := r.URL.Query()
		assert.Equal(t, testUtils.MintA.String(), query.Get("inputMint"))
		assert.Equal(t, testUtils.MintB.String(), query.Get("outputMint"))
		assert.Equal(t, "1000000", query.Get("amount"))
		assert.Equal(t, "50", query.Get("slippageBps"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestQuote(t *testing.T) {
	t.Run("exact in", func(t *testing.T) {
		server := newServer(t, http.StatusOK, quoteBody)
		client, err := jupiter.NewClient(server.URL, zaptest.NewLogger(t))
		require.NoError(t, err)

		quote, err := client.QuoteExactIn(context.Background(), testUtils.MintA, testUtils.MintB, 1_000_000, 50)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), quote.InAmount)
		assert.Equal(t, uint64(1_995_000), quote.OutAmount)
		assert.Equal(t, uint64(1_985_025), quote.OtherAmountThreshold)
		assert.InDelta(t, 0.0012, quote.PriceImpactPct, 1e-12)
	})

	t.Run("server error", func(t *testing.T) {
		server := newServer(t, http.StatusBadRequest, `{"error":"no route"}`)
		client, err := jupiter.NewClient(server.URL, nil)
		require.NoError(t, err)

		_, err = client.QuoteExactOut(context.Background(), testUtils.MintA, testUtils.MintB, 1_000_000, 50)
		assert.ErrorIs(t, err, jupiter.ErrQuoteRequest)
	})

	t.Run("malformed amount", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"inAmount":"abc","outAmount":"1","otherAmountThreshold":"1","routePlan":[]}`)
		client, err := jupiter.NewClient(server.URL, nil)
		require.NoError(t, err)

		_, err = client.QuoteExactIn(context.Background(), testUtils.MintA, testUtils.MintB, 1_000_000, 50)
		assert.ErrorIs(t, err, jupiter.ErrQuoteRequest)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := newServer(t, http.StatusOK, quoteBody)
		url := server.URL
		server.Close()

		client, err := jupiter.NewClient(url, nil)
		require.NoError(t, err)
		_, err = client.QuoteExactIn(context.Background(), testUtils.MintA, testUtils.MintB, 1_000_000, 50)
		assert.ErrorIs(t, err, jupiter.ErrQuoteRequest)
	})
}

func TestSwapTransactionRequiresAggregatorQuote(t *testing.T) {
	client, err := jupiter.NewClient("http://127.0.0.1:0", nil)
	require.NoError(t, err)

	_, err = client.SwapTransaction(context.Background(), jupiter.Quote{InAmount: 1}, testUtils.MintA)
	assert.ErrorIs(t, err, jupiter.ErrSwapRequest)
}
