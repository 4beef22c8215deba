// Package credentialtest mints credentials for tests. Tokens are HS256-signed
// with a throwaway key; nothing in the client verifies the signature.
package credentialtest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var key = []byte("credentialtest-signing-key")

// Mint returns a signed token for subject expiring at exp.
func Mint(t testing.TB, subject string, exp time.Time) string {
	t.Helper()
	return MintClaims(t, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
}

// MintClaims signs arbitrary claims, e.g. to build tokens missing sub or exp.
func MintClaims(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("mint credential: %v", err)
	}
	return tok
}

// Valid returns a token for subject that expires an hour from now.
func Valid(t testing.TB, subject string) string {
	t.Helper()
	return Mint(t, subject, time.Now().Add(time.Hour))
}
