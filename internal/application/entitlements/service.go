package entitlements

import (
	"context"
	"crypto/subtle"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
)

// Service covers the non-payment entitlement paths: beta-code bypass and
// token introspection.
type Service struct {
	Issuer    entitlement.Issuer
	Verifier  entitlement.Verifier
	BetaCodes []string
}

// VerifyBeta exchanges a known beta code for an entitlement token.
// Codes are compared in constant time. reportID may be empty when the
// client has not generated a report yet; the resulting token then unlocks
// nothing until re-issued for a concrete report.
func (s *Service) VerifyBeta(ctx context.Context, code, reportID string) (string, error) {
	valid := false
	for _, known := range s.BetaCodes {
		if subtle.ConstantTimeCompare([]byte(code), []byte(known)) == 1 {
			valid = true
			break
		}
	}
	if !valid {
		return "", entitlement.ErrInvalidBetaCode
	}
	return s.Issuer.Issue(ctx, reportID, entitlement.SourceBetaCode)
}

// Validate verifies a presented token and returns its claim.
func (s *Service) Validate(ctx context.Context, token string) (*entitlement.Claim, error) {
	return s.Verifier.Verify(ctx, token)
}
