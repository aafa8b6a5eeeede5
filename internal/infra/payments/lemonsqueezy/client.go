package lemonsqueezy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
)

const defaultBaseURL = "https://api.lemonsqueezy.com/v1"

// Client confirms card-checkout orders against the LemonSqueezy API.
// The checkout SDK itself is an opaque event source on the frontend; the
// server only ever sees an order id and asks the API whether it was paid.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type orderResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

// VerifyOrder fetches the order and requires a paid status. Any other
// outcome maps to ErrVerificationFailed so the caller can surface a retry.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrVerificationFailed, err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: order lookup returned %d", payment.ErrVerificationFailed, resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return fmt.Errorf("%w: %v", payment.ErrVerificationFailed, err)
	}
	if order.Data.Attributes.Status != "paid" {
		return fmt.Errorf("%w: order status %q", payment.ErrVerificationFailed, order.Data.Attributes.Status)
	}
	return nil
}
