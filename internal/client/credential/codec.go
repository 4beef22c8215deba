// Package credential decodes backend-issued credentials and decides whether
// a decoded credential is locally valid for a given user.
//
// Decoding is structural only: the signature segment is never checked, so a
// decoded credential is untrusted input and never an authorization decision
// on its own. The backend remains the authority (see services.Validate).
package credential

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the typed payload of a credential. Only sub and exp are
// required; any other registered claims are carried along.
type Claims struct {
	jwt.RegisteredClaims
}

// Expiry returns the absolute expiry instant.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

var parser = jwt.NewParser()

// Decode splits raw on dots, base64url-decodes the payload (second segment)
// and parses it into Claims. The header and signature are not inspected.
//
// All failures wrap ErrMalformedCredential. A payload lacking sub or exp is
// rejected rather than returned half-populated.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedCredential, len(parts))
	}
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %w", ErrMalformedCredential, err)
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %w", ErrMalformedCredential, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedCredential)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrMalformedCredential)
	}
	return claims, nil
}
