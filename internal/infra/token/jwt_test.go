package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/entitlement"
)

func TestIssueAndVerify(t *testing.T) {
	j := NewJWT("test-secret", 0)

	tok, err := j.Issue(context.Background(), "report-a", entitlement.SourceCard)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claim, err := j.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "report-a", claim.ReportID)
	assert.True(t, claim.IsPaid)
	assert.Equal(t, entitlement.SourceCard, claim.Source)
}

func TestVerify_ExpiredTreatedAsInvalid(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	j := NewJWT("test-secret", 24*time.Hour).WithClock(func() time.Time { return issuedAt })

	tok, err := j.Issue(context.Background(), "report-a", entitlement.SourceCrypto)
	require.NoError(t, err)

	// still valid just inside the window
	j.WithClock(func() time.Time { return issuedAt.Add(23 * time.Hour) })
	_, err = j.Verify(context.Background(), tok)
	require.NoError(t, err)

	// past 24h behaves exactly like a missing token
	j.WithClock(func() time.Time { return issuedAt.Add(25 * time.Hour) })
	_, err = j.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, entitlement.ErrInvalidClaim)
}

func TestVerify_BadSignature(t *testing.T) {
	issuer := NewJWT("secret-one", 0)
	verifier := NewJWT("secret-two", 0)

	tok, err := issuer.Issue(context.Background(), "report-a", entitlement.SourceBetaCode)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, entitlement.ErrInvalidClaim)
}

func TestVerify_MalformedAndEmpty(t *testing.T) {
	j := NewJWT("test-secret", 0)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := j.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, entitlement.ErrInvalidClaim, "token %q", tok)
	}
}
