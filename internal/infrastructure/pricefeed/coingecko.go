package pricefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// CoinGeckoClient fetches USD spot prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration) *CoinGeckoClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type simplePriceResponse map[string]struct {
	USD *float64 `json:"usd"`
}

// FetchPrices returns USD prices keyed by CoinGecko id. Ids missing from the
// response are left out of the map.
func (c *CoinGeckoClient) FetchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	q := url.Values{}
	q.Set("ids", strings.Join(sorted, ","))
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching prices")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}

	prices := make(map[string]float64, len(body))
	for id, quote := range body {
		if quote.USD != nil {
			prices[id] = *quote.USD
		}
	}
	return prices, nil
}
