package kryptogo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
)

const defaultBaseURL = "https://api.kryptogo.com/payment/v1"

// Client wraps the KryptoGO payment API for crypto checkouts.
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

// CreatePayment opens a payment intent and returns the provider reference
// plus the hosted checkout URL the frontend redirects to.
func (c *Client) CreatePayment(ctx context.Context, reportID, amount, currency string) (string, string, error) {
	body, err := json.Marshal(map[string]string{
		"external_id": reportID,
		"amount":      amount,
		"currency":    currency,
	})
	if err != nil {
		return "", "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("create payment: provider returned %d", resp.StatusCode)
	}

	var out struct {
		PaymentID   string `json:"payment_id"`
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("create payment: %w", err)
	}
	if out.PaymentID == "" {
		return "", "", fmt.Errorf("create payment: missing payment_id in response")
	}
	return out.PaymentID, out.CheckoutURL, nil
}

// GetStatus fetches the provider-side status of a payment.
func (c *Client) GetStatus(ctx context.Context, paymentRef string) (payment.CryptoStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentRef, nil)
	if err != nil {
		return payment.CryptoStatus{}, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return payment.CryptoStatus{}, fmt.Errorf("payment status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return payment.CryptoStatus{}, fmt.Errorf("payment status: provider returned %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
		TxHash string `json:"tx_hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return payment.CryptoStatus{}, fmt.Errorf("payment status: %w", err)
	}
	return payment.CryptoStatus{Status: payment.ParseStatus(out.Status), TxHash: out.TxHash}, nil
}
