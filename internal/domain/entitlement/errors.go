package entitlement

import "errors"

// ErrInvalidClaim covers bad signature, expiry and malformed structure.
// Never fatal on report reads (callers fall back to the redacted view);
// fatal on the PDF path.
var ErrInvalidClaim = errors.New("invalid entitlement claim")

// ErrAccessDenied indicates a claim that verifies but names a different
// report than the one requested.
var ErrAccessDenied = errors.New("access denied")

// ErrInvalidBetaCode indicates an unknown beta code on the payment-bypass path.
var ErrInvalidBetaCode = errors.New("invalid beta code")
