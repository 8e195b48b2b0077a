package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

// HTTPFeed reads the latest round from a JSON price oracle endpoint.
type HTTPFeed struct {
	url    string
	client *http.Client
}

func NewHTTPFeed(url string) *HTTPFeed {
	return &HTTPFeed{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type feedPayload struct {
	Price    string `json:"price"`
	Decimals uint8  `json:"decimals"`
}

func (f *HTTPFeed) LatestPrice(ctx context.Context) (*big.Int, uint8, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, 0, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("price feed request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("price feed returned status %d", res.StatusCode)
	}

	var payload feedPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("price feed payload decode failed: %w", err)
	}

	price, ok := new(big.Int).SetString(payload.Price, 10)
	if !ok {
		return nil, 0, fmt.Errorf("price feed returned malformed price %q", payload.Price)
	}

	return price, payload.Decimals, nil
}
