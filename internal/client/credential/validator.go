package credential

import "time"

// Check returns nil when claims were issued for expectedSubject and expire
// strictly after now. A credential whose expiry equals now is expired.
func Check(claims *Claims, expectedSubject string, now time.Time) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrMalformedCredential
	}
	if claims.Subject != expectedSubject {
		return ErrSubjectMismatch
	}
	if !claims.ExpiresAt.Time.After(now) {
		return ErrExpiredCredential
	}
	return nil
}

// IsValid reports whether Check passes.
func IsValid(claims *Claims, expectedSubject string, now time.Time) bool {
	return Check(claims, expectedSubject, now) == nil
}
