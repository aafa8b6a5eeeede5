package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/collegeplan-api/internal/application"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
	domain "github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
)

// Service is the payment event bridge: it normalizes success callbacks from
// the two unrelated checkout providers into one "payment succeeded for order
// O" decision and exchanges it for an entitlement token.
type Service struct {
	Payments domain.Repository
	Card     domain.CardVerifier
	Crypto   domain.CryptoGateway
	Tokens   entitlement.Issuer
	Clock    application.Clock
	Log      zerolog.Logger

	// default charge for a full plan, from config
	Amount   string
	Currency string

	// issued keys one token per order so a second exchange for the same
	// order returns the existing token instead of minting a duplicate
	mu     sync.Mutex
	issued map[string]string
}

// VerifyCardResult is what POST /lemon-squeezy/verify returns.
type VerifyCardResult struct {
	Token   string `json:"token"`
	OrderID string `json:"orderId"`
}

// VerifyCard extracts an order id from the raw checkout payload, confirms it
// with the provider, and issues the entitlement token. Synthesized fallback
// ids skip the provider lookup (there is nothing to look up) per the
// best-effort policy.
func (s *Service) VerifyCard(ctx context.Context, payload []byte, reportID string) (VerifyCardResult, error) {
	orderID := ExtractOrderID(payload, s.Clock.Now())

	if !IsFallbackOrderID(orderID) {
		if err := s.Card.VerifyOrder(ctx, orderID); err != nil {
			return VerifyCardResult{}, err
		}
	} else {
		s.Log.Warn().Str("order_id", orderID).Str("report_id", reportID).
			Msg("card payload carried no recognizable order id, using synthesized fallback")
	}

	token, err := s.issueOnce(ctx, "card:"+orderID, reportID, entitlement.SourceCard)
	if err != nil {
		return VerifyCardResult{}, err
	}
	return VerifyCardResult{Token: token, OrderID: orderID}, nil
}

// Initialize opens a crypto payment for a report and stores the pending record.
func (s *Service) Initialize(ctx context.Context, reportID, amount, currency string) (*domain.Payment, error) {
	if amount == "" {
		amount = s.Amount
	}
	if currency == "" {
		currency = s.Currency
	}
	ref, checkoutURL, err := s.Crypto.CreatePayment(ctx, reportID, amount, currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	now := s.Clock.Now()
	p := &domain.Payment{
		ID:          domain.PaymentID(ref),
		ReportID:    reportID,
		Status:      domain.StatusPending,
		Amount:      amount,
		Currency:    currency,
		CheckoutURL: checkoutURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyResult is what POST /payment/verify returns. Token is empty while
// the payment is still pending.
type VerifyResult struct {
	Payment *domain.Payment `json:"payment"`
	Token   string          `json:"token,omitempty"`
}

// Verify polls the gateway, advances the state machine, and exchanges a
// terminal success (with a transaction hash) for an entitlement token.
// Every other terminal state surfaces ErrVerificationFailed with no exchange.
func (s *Service) Verify(ctx context.Context, id domain.PaymentID) (VerifyResult, error) {
	p, err := s.Payments.Get(ctx, id)
	if err != nil {
		return VerifyResult{}, err
	}

	if !p.Status.Terminal() {
		st, err := s.Crypto.GetStatus(ctx, string(p.ID))
		if err != nil {
			return VerifyResult{}, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
		}
		if st.Status == domain.StatusPending {
			return VerifyResult{Payment: p}, nil
		}
		if st.Status == domain.StatusSuccess && st.TxHash == "" {
			// success without an on-chain hash is not yet a success
			return VerifyResult{Payment: p}, nil
		}
		if err := p.Transition(st.Status, st.TxHash, s.Clock.Now()); err != nil {
			return VerifyResult{}, err
		}
		if err := s.Payments.Save(ctx, p); err != nil {
			return VerifyResult{}, err
		}
	}

	switch p.Status {
	case domain.StatusPending:
		return VerifyResult{Payment: p}, nil
	case domain.StatusSuccess:
		token, err := s.issueOnce(ctx, "crypto:"+string(p.ID), p.ReportID, entitlement.SourceCrypto)
		if err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Payment: p, Token: token}, nil
	default:
		return VerifyResult{Payment: p}, fmt.Errorf("%w: payment %s", domain.ErrVerificationFailed, p.Status)
	}
}

// webhookEvent is the provider callback shape.
type webhookEvent struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	TxHash    string `json:"tx_hash"`
	Signature string `json:"signature"`
}

// HandleWebhook applies a provider status callback to the stored payment.
// Signature validation is intentionally permissive; replay-proof webhook
// verification is out of scope.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte) error {
	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: malformed webhook payload", domain.ErrVerificationFailed)
	}
	if ev.PaymentID == "" {
		return fmt.Errorf("%w: webhook missing payment_id", domain.ErrVerificationFailed)
	}

	p, err := s.Payments.Get(ctx, domain.PaymentID(ev.PaymentID))
	if err != nil {
		return err
	}
	if p.Status.Terminal() {
		return nil
	}

	status := domain.ParseStatus(ev.Status)
	if status == domain.StatusPending {
		return nil
	}
	if status == domain.StatusSuccess && ev.TxHash == "" {
		s.Log.Warn().Str("payment_id", ev.PaymentID).Msg("webhook success without tx hash ignored")
		return nil
	}

	if err := p.Transition(status, ev.TxHash, s.Clock.Now()); err != nil {
		return err
	}
	if err := s.Payments.Save(ctx, p); err != nil {
		return err
	}

	if p.Status == domain.StatusSuccess {
		if _, err := s.issueOnce(ctx, "crypto:"+string(p.ID), p.ReportID, entitlement.SourceCrypto); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current payment record.
func (s *Service) Get(ctx context.Context, id domain.PaymentID) (*domain.Payment, error) {
	return s.Payments.Get(ctx, id)
}

// issueOnce mints at most one token per order key.
func (s *Service) issueOnce(ctx context.Context, key, reportID string, source entitlement.Source) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.issued == nil {
		s.issued = make(map[string]string)
	}
	if tok, ok := s.issued[key]; ok {
		return tok, nil
	}
	tok, err := s.Tokens.Issue(ctx, reportID, source)
	if err != nil {
		return "", err
	}
	s.issued[key] = tok
	return tok, nil
}
