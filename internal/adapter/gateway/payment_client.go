package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ldtri/mealgo-api/internal/usecase"
)

// PaymentClient talks to the external payment service. Transport failures and
// 5xx responses surface as ErrUpstream so callers know a retry may help.
type PaymentClient struct {
	http    *http.Client
	baseURL string
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *PaymentClient) Verify(ctx context.Context, orderID string) (usecase.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/payments/%s", c.baseURL, orderID), nil)
	if err != nil {
		return "", err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: payment service returned %d", usecase.ErrUpstream, res.StatusCode)
	}
	if res.StatusCode != http.StatusOK {
		return usecase.PaymentPending, nil
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode payment response: %v", usecase.ErrUpstream, err)
	}
	switch usecase.PaymentStatus(body.Status) {
	case usecase.PaymentSuccess, usecase.PaymentPending, usecase.PaymentFailed:
		return usecase.PaymentStatus(body.Status), nil
	}
	return "", fmt.Errorf("%w: unexpected payment status %q", usecase.ErrUpstream, body.Status)
}

var _ usecase.PaymentGateway = (*PaymentClient)(nil)
