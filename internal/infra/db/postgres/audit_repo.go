package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	domain "github.com/bryanwahyu/collegeplan-api/internal/domain/audit"
)

type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

// Save inserts a generation record
func (r *AuditRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO generation_audit (id, report_id, model, response, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
  report_id=EXCLUDED.report_id, model=EXCLUDED.model, response=EXCLUDED.response;`

	reportID := rec.ReportID
	if strings.TrimSpace(reportID) == "" {
		reportID = "-"
	}
	response := rec.Response
	if strings.TrimSpace(response) == "" {
		response = "{}"
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, rec.ID, reportID, rec.Model, response, createdAt)
	return err
}

// LatestByReport returns the newest record for a report, or nil when absent
func (r *AuditRepository) LatestByReport(ctx context.Context, reportID string) (*domain.Record, error) {
	const q = `
SELECT id, report_id, model, response, created_at
FROM generation_audit
WHERE report_id=$1
ORDER BY created_at DESC, id DESC
LIMIT 1;`

	row := r.db.QueryRowContext(ctx, q, reportID)

	var rec domain.Record
	if err := row.Scan(&rec.ID, &rec.ReportID, &rec.Model, &rec.Response, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
