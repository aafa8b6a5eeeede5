package memory

import (
	"context"
	"sync"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
)

// PaymentStore keeps crypto payment records in memory. Unlike reports,
// payments mutate (state transitions), so Save stores a copy and Get
// returns a copy to keep callers from racing on the shared record.
type PaymentStore struct {
	mu       sync.RWMutex
	payments map[payment.PaymentID]payment.Payment
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[payment.PaymentID]payment.Payment)}
}

func (s *PaymentStore) Save(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = *p
	return nil
}

func (s *PaymentStore) Get(_ context.Context, id payment.PaymentID) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	out := p
	return &out, nil
}
