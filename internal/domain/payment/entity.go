package payment

import (
	"fmt"
	"strings"
	"time"
)

// PaymentID tipe untuk Payment
type PaymentID string

// Status enum for the crypto checkout state machine.
// pending is the only non-terminal server-side state; success is the only
// terminal state that leads to entitlement exchange.
type Status string

const (
	StatusPending              Status = "pending"
	StatusSuccess              Status = "success"
	StatusExpired              Status = "expired"
	StatusInsufficientNoRefund Status = "insufficient_not_refunded"
	StatusInsufficientRefunded Status = "insufficient_refunded"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusExpired, StatusInsufficientNoRefund, StatusInsufficientRefunded:
		return true
	}
	return false
}

// ParseStatus normalizes provider status strings onto the state machine.
// Unknown strings map to pending so an unrecognized transition never
// accidentally terminates a payment.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "paid", "completed":
		return StatusSuccess
	case "expired", "timeout":
		return StatusExpired
	case "insufficient_not_refunded":
		return StatusInsufficientNoRefund
	case "insufficient_refunded":
		return StatusInsufficientRefunded
	default:
		return StatusPending
	}
}

// Order is the provider-agnostic shape bridged from external SDK payloads.
type Order struct {
	OrderID  string `json:"order_id"`
	ReportID string `json:"report_id"`
}

// Payment tracks one crypto checkout from initialization to a terminal state.
type Payment struct {
	ID          PaymentID `json:"id"`
	ReportID    string    `json:"report_id"`
	OrderID     string    `json:"order_id,omitempty"`
	Status      Status    `json:"status"`
	TxHash      string    `json:"tx_hash,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transition moves the payment to a new status. Only pending payments may
// move; success additionally requires a non-empty transaction hash.
func (p *Payment) Transition(to Status, txHash string, at time.Time) error {
	if p.Status.Terminal() {
		return fmt.Errorf("payment %s already terminal (%s): %w", p.ID, p.Status, ErrInvalidTransition)
	}
	if to == StatusPending {
		return fmt.Errorf("cannot transition back to pending: %w", ErrInvalidTransition)
	}
	if to == StatusSuccess && txHash == "" {
		return fmt.Errorf("success requires a transaction hash: %w", ErrInvalidTransition)
	}
	if !to.Terminal() {
		return fmt.Errorf("unknown status %q: %w", to, ErrInvalidTransition)
	}
	p.Status = to
	p.TxHash = txHash
	p.UpdatedAt = at
	return nil
}
