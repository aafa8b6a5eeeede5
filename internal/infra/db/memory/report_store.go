package memory

import (
	"context"
	"sync"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

// ReportStore is the default keyed in-memory Repository. Reports are
// immutable after Save, so concurrent Gets need no copy beyond the pointer.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[report.ReportID]*report.Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[report.ReportID]*report.Report)}
}

func (s *ReportStore) Save(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

func (s *ReportStore) Get(_ context.Context, id report.ReportID) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, report.ErrNotFound
	}
	return r, nil
}
