package memory

import (
	"context"
	"sync"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/audit"
)

// AuditStore keeps generation records in memory so the default backend has
// the same audit trail as the SQL ones. Records append in arrival order.
type AuditStore struct {
	mu       sync.RWMutex
	byReport map[string][]audit.Record
}

func NewAuditStore() *AuditStore {
	return &AuditStore{byReport: make(map[string][]audit.Record)}
}

func (s *AuditStore) Save(_ context.Context, rec *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byReport[rec.ReportID] = append(s.byReport[rec.ReportID], *rec)
	return nil
}

// LatestByReport returns the newest record for a report, or nil when absent.
func (s *AuditStore) LatestByReport(_ context.Context, reportID string) (*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.byReport[reportID]
	if len(recs) == 0 {
		return nil, nil
	}
	out := recs[len(recs)-1]
	return &out, nil
}
