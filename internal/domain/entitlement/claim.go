package entitlement

import (
	"context"
	"time"
)

// Source enum: how the entitlement was obtained
type Source string

const (
	SourceCard     Source = "card"
	SourceCrypto   Source = "crypto"
	SourceBetaCode Source = "beta_code"
)

// Claim asserts that premium content for one specific report is unlocked.
// A claim for report A must never unlock report B.
type Claim struct {
	ReportID string    `json:"report_id"`
	IsPaid   bool      `json:"is_paid"`
	Source   Source    `json:"source"`
	IssuedAt time.Time `json:"issued_at"`
}

// Issuer signs a claim into a bearer token with a 24h expiry window.
type Issuer interface {
	Issue(ctx context.Context, reportID string, source Source) (string, error)
}

// Verifier checks signature, expiry and structure. Report-ID matching is the
// caller's job since only the caller knows which report is being requested.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claim, error)
}
