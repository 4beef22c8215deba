package credential

import "errors"

var (
	// ErrMalformedCredential means the raw value could not be decoded into
	// claims. Callers treat such a credential as absent.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrExpiredCredential means the credential's expiry is not after now.
	ErrExpiredCredential = errors.New("credential expired")

	// ErrSubjectMismatch means the credential was issued for another user
	// than the one it is stored or presented with.
	ErrSubjectMismatch = errors.New("credential subject mismatch")
)
