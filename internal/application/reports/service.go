package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/collegeplan-api/internal/application"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/audit"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
	domain "github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

// Service implements use-cases untuk Report.
// Safe for concurrent use: reports are immutable after creation, so
// concurrent reads need no locking.
type Service struct {
	Repo      domain.Repository
	Gen       domain.Generator
	Renderer  domain.Renderer
	Audit     audit.Repository     // optional
	Artifacts domain.ArtifactStore // optional
	Clock     application.Clock
	Log       zerolog.Logger
	Model     string // recorded in the generation audit trail
}

//
// ==== USE CASES ====
//

// View is what GET /report/{id} returns: the content is full or redacted
// depending on the entitlement outcome.
type View struct {
	IsPaid bool           `json:"isPaid"`
	Report *domain.Report `json:"report"`
}

// Generate runs one generation attempt and stores the result under a fresh
// id. Failures surface as ErrGenerationUnavailable; nothing partial is stored.
func (s *Service) Generate(ctx context.Context, profile domain.StudentProfile) (*domain.Report, error) {
	content, err := s.Gen.Generate(ctx, profile)
	if err != nil {
		return nil, err
	}

	rep := &domain.Report{
		ID:        domain.ReportID(uuid.New().String()),
		Profile:   profile,
		Content:   content,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.recordAudit(ctx, rep)
	return rep, nil
}

// recordAudit writes the generation record best-effort
func (s *Service) recordAudit(ctx context.Context, rep *domain.Report) {
	if s.Audit == nil {
		return
	}
	raw, err := json.Marshal(rep.Content)
	if err != nil {
		return
	}
	rec := &audit.Record{
		ID:        audit.RecordID(uuid.New().String()),
		ReportID:  string(rep.ID),
		Model:     s.Model,
		Response:  string(raw),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Audit.Save(ctx, rec); err != nil {
		s.Log.Warn().Err(err).Str("report_id", string(rep.ID)).Msg("generation audit write failed")
	}
}

// Get returns the full or redacted view of a report. claim is the verified
// entitlement from the request, or nil. Claim failures of any kind (missing,
// malformed, expired, wrong report) degrade to the redacted view; they are
// never fatal here.
func (s *Service) Get(ctx context.Context, id domain.ReportID, claim *entitlement.Claim) (View, error) {
	rep, err := s.Repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}

	if entitledTo(claim, id) {
		return View{IsPaid: true, Report: rep}, nil
	}

	limited := *rep
	limited.Content = domain.Redact(rep.Content)
	return View{IsPaid: false, Report: &limited}, nil
}

// entitledTo enforces the claim/report binding: a claim for report A never
// unlocks report B.
func entitledTo(claim *entitlement.Claim, id domain.ReportID) bool {
	return claim != nil && claim.IsPaid && claim.ReportID == string(id)
}

// PDF renders the full report. Unlike Get, entitlement failure here is
// fatal: a missing, invalid or mismatched claim rejects with ErrAccessDenied.
func (s *Service) PDF(ctx context.Context, id domain.ReportID, claim *entitlement.Claim) ([]byte, error) {
	if !entitledTo(claim, id) {
		return nil, entitlement.ErrAccessDenied
	}

	rep, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.Renderer.Render(rep)
	if err != nil {
		return nil, err
	}

	// archive a copy when storage is configured; failure never blocks the download
	if s.Artifacts != nil {
		key := fmt.Sprintf("plans/%s.pdf", rep.ID)
		if _, err := s.Artifacts.UploadBytes(ctx, key, data, "application/pdf"); err != nil {
			s.Log.Warn().Err(err).Str("report_id", string(rep.ID)).Msg("pdf archival failed")
		}
	}
	return data, nil
}
