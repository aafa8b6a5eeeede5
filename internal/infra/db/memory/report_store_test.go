package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/audit"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

func TestReportStore_SaveGet(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, report.ErrNotFound)

	rep := &report.Report{
		ID:        "rep-1",
		Profile:   report.StudentProfile{Name: "Ada"},
		Content:   report.ReportContent{Overview: "plan"},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(ctx, rep))

	got, err := s.Get(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, rep, got)
}

func TestReportStore_Concurrent(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := report.ReportID(fmt.Sprintf("rep-%d", i))
			_ = s.Save(ctx, &report.Report{ID: id})
			_, _ = s.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, err := s.Get(ctx, report.ReportID(fmt.Sprintf("rep-%d", i)))
		assert.NoError(t, err)
	}
}

func TestAuditStore_LatestByReport(t *testing.T) {
	s := NewAuditStore()
	ctx := context.Background()

	got, err := s.LatestByReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &audit.Record{ID: "rec-1", ReportID: "rep-1", Model: "gpt-4o",
		Response: `{"overview":"v1"}`, CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	second := &audit.Record{ID: "rec-2", ReportID: "rep-1", Model: "gpt-4o",
		Response: `{"overview":"v2"}`, CreatedAt: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))
	require.NoError(t, s.Save(ctx, &audit.Record{ID: "rec-3", ReportID: "rep-other"}))

	got, err = s.LatestByReport(ctx, "rep-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, audit.RecordID("rec-2"), got.ID)
	assert.Equal(t, `{"overview":"v2"}`, got.Response)

	// returned record is a copy, not shared state
	got.Response = "mutated"
	again, err := s.LatestByReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, `{"overview":"v2"}`, again.Response)
}

func TestPaymentStore_ReturnsCopies(t *testing.T) {
	s := NewPaymentStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, payment.ErrNotFound)

	p := &payment.Payment{ID: "pay-1", ReportID: "rep-1", Status: payment.StatusPending}
	require.NoError(t, s.Save(ctx, p))

	// mutating the caller's struct must not leak into the store
	p.Status = payment.StatusSuccess

	got, err := s.Get(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, got.Status)

	// and mutating a read result must not either
	got.Status = payment.StatusExpired
	again, err := s.Get(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, again.Status)
}
