package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for flow failures that never reach the backend.
var (
	// ErrMissingContext is returned when the OTP step is entered without a
	// pending registration. Callers redirect without showing an error.
	ErrMissingContext = errors.New("missing registration context")

	// ErrResetUnavailable is returned by the second phase of the
	// forgot-password flow, which has no backend counterpart yet.
	ErrResetUnavailable = errors.New("password reset is not available yet")

	// ErrNoCredential is returned when a protected operation runs without a
	// stored credential.
	ErrNoCredential = errors.New("no stored credential")
)
