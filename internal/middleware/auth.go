package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
)

type contextKey string

const claimKey contextKey = "entitlement_claim"

// BearerToken extracts the raw token from the Authorization header.
// Supports both "Bearer <token>" and "<token>" formats.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// OptionalEntitlement verifies a bearer token when present and stores the
// claim in the request context. Verification failure is NOT fatal here:
// the request proceeds unauthenticated and handlers serve the redacted
// view. Routes that need a hard check (PDF) reject on a missing claim.
func OptionalEntitlement(verifier entitlement.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := BearerToken(r); tok != "" {
				if claim, err := verifier.Verify(r.Context(), tok); err == nil {
					ctx := context.WithValue(r.Context(), claimKey, claim)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimFromContext returns the verified claim, or nil when absent.
func ClaimFromContext(ctx context.Context) *entitlement.Claim {
	if c, ok := ctx.Value(claimKey).(*entitlement.Claim); ok {
		return c
	}
	return nil
}
