package payment

import "errors"

// ErrVerificationFailed indicates the order or transaction could not be
// confirmed by the provider. Surfaced to the user with a retry affordance,
// never silently treated as success.
var ErrVerificationFailed = errors.New("payment verification failed")

// ErrNotFound indicates an unknown payment id.
var ErrNotFound = errors.New("payment not found")

// ErrInvalidTransition indicates a state-machine violation on a payment record.
var ErrInvalidTransition = errors.New("invalid payment transition")
