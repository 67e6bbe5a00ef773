package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoClient(t *testing.T) {
	t.Run("parses simple price response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/simple/price", r.URL.Path)
			assert.Equal(t, "degen-base,ethereum", r.URL.Query().Get("ids"))
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ethereum":{"usd":3120.55},"degen-base":{"usd":0.0042},"weth":{}}`))
		}))
		defer srv.Close()

		client := NewCoinGeckoClient(srv.URL+"/", "demo-key", time.Second)
		prices, err := client.FetchPrices(context.Background(), []string{"ethereum", "degen-base"})
		require.NoError(t, err)
		assert.InDelta(t, 3120.55, prices["ethereum"], 1e-9)
		assert.InDelta(t, 0.0042, prices["degen-base"], 1e-9)
		_, ok := prices["weth"]
		assert.False(t, ok)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewCoinGeckoClient(srv.URL, "", time.Second).FetchPrices(context.Background(), []string{"ethereum"})
		assert.ErrorContains(t, err, "429")
	})

	t.Run("no ids skips the request", func(t *testing.T) {
		prices, err := NewCoinGeckoClient("http://127.0.0.1:0", "", time.Second).FetchPrices(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, prices)
	})
}
