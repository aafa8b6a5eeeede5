package payment

import "context"

// Repository port for payment records
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id PaymentID) (*Payment, error)
}

// CardVerifier confirms a card-checkout order with the provider backend.
type CardVerifier interface {
	VerifyOrder(ctx context.Context, orderID string) error
}

// CryptoStatus is one status observation from the crypto gateway.
type CryptoStatus struct {
	Status Status
	TxHash string
}

// CryptoGateway wraps the crypto provider API.
type CryptoGateway interface {
	CreatePayment(ctx context.Context, reportID, amount, currency string) (paymentRef, checkoutURL string, err error)
	GetStatus(ctx context.Context, paymentRef string) (CryptoStatus, error)
}
