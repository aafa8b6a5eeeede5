package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// Save insert Report record; duplicate key is a no-op (reports are immutable)
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO reports (id, student_profile, content, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO NOTHING;`

	profileJSON, err := json.Marshal(rep.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	contentJSON, err := json.Marshal(rep.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q, rep.ID, profileJSON, contentJSON, created)
	return err
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT id, student_profile, content, created_at
FROM reports
WHERE id=$1 LIMIT 1;`

	row := r.db.QueryRowContext(ctx, q, id)

	var rep domain.Report
	var profileJSON, contentJSON []byte
	if err := row.Scan(&rep.ID, &profileJSON, &contentJSON, &rep.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &rep.Profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := json.Unmarshal(contentJSON, &rep.Content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	return &rep, nil
}
