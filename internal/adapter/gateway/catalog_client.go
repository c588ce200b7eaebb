package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ldtri/mealgo-api/internal/usecase"
)

// CatalogClient fetches current menu prices for the cart price-sync view.
// Prices are display-only; an order's snapshot never changes with them.
type CatalogClient struct {
	http    *http.Client
	baseURL string
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *CatalogClient) Prices(ctx context.Context) ([]usecase.CatalogPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/prices", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog service returned %d", usecase.ErrUpstream, res.StatusCode)
	}
	var prices []usecase.CatalogPrice
	if err := json.NewDecoder(res.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("%w: decode catalog response: %v", usecase.ErrUpstream, err)
	}
	return prices, nil
}

var _ usecase.CatalogGateway = (*CatalogClient)(nil)
