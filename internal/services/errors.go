package services

import "errors"

// Error taxonomy surfaced to the request boundary. Handlers map these to
// re-rendered forms (validation class), 403 (forbidden) or 404 (not found,
// which the store layer reports directly).
var (
	// ErrForbidden is returned when the caller lacks the privilege for
	// an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned for every failed authentication,
	// whether the email is unknown or the password is wrong. The two
	// cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is wrapped around missing/malformed-field errors.
	ErrValidation = errors.New("validation failed")
)
