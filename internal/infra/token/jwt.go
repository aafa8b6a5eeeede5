package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
)

// DefaultTTL is the entitlement validity window.
const DefaultTTL = 24 * time.Hour

type entitlementClaims struct {
	ReportID string `json:"report_id"`
	IsPaid   bool   `json:"is_paid"`
	Source   string `json:"source"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 entitlement tokens with a server-held secret.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the time source, untuk test
func (j *JWT) WithClock(now func() time.Time) *JWT {
	j.now = now
	return j
}

func (j *JWT) Issue(_ context.Context, reportID string, source entitlement.Source) (string, error) {
	now := j.now()
	claims := entitlementClaims{
		ReportID: reportID,
		IsPaid:   true,
		Source:   string(source),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   reportID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign entitlement token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and structure. Every failure collapses to
// ErrInvalidClaim so an expired token is treated identically to a missing one.
func (j *JWT) Verify(_ context.Context, tokenString string) (*entitlement.Claim, error) {
	if tokenString == "" {
		return nil, entitlement.ErrInvalidClaim
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &entitlementClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entitlement.ErrInvalidClaim, err)
	}
	claims, ok := parsed.Claims.(*entitlementClaims)
	if !ok || !parsed.Valid || !claims.IsPaid {
		return nil, entitlement.ErrInvalidClaim
	}
	c := &entitlement.Claim{
		ReportID: claims.ReportID,
		IsPaid:   claims.IsPaid,
		Source:   entitlement.Source(claims.Source),
	}
	if claims.IssuedAt != nil {
		c.IssuedAt = claims.IssuedAt.Time
	}
	return c, nil
}
