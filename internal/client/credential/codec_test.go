package credential

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/dsatracker/internal/client/credential/credentialtest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

var header = seg(`{"alg":"HS256","typ":"JWT"}`)

func TestDecode_ValidToken(t *testing.T) {
	exp := time.Unix(1_900_000_000, 0)
	tok := credentialtest.Mint(t, "alice", exp)

	claims, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, exp.Equal(claims.Expiry()))
}

func TestDecode_IgnoresSignature(t *testing.T) {
	tok := credentialtest.Valid(t, "alice")
	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + ".not-a-signature"

	claims, err := Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestDecode_Malformed(t *testing.T) {
	payload := seg(`{"sub":"alice","exp":1900000000}`)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "one segment", raw: "abc"},
		{name: "two segments", raw: header + "." + payload},
		{name: "payload not base64url", raw: header + ".!!!***.sig"},
		{name: "payload not json", raw: header + "." + seg("not json") + ".sig"},
		{name: "payload not an object", raw: header + "." + seg(`"alice"`) + ".sig"},
		{name: "payload array", raw: header + "." + seg(`["alice"]`) + ".sig"},
		{name: "exp wrong type", raw: header + "." + seg(`{"sub":"alice","exp":"tomorrow"}`) + ".sig"},
		{name: "payload null", raw: header + "." + seg("null") + ".sig"},
		{name: "missing subject", raw: header + "." + seg(`{"exp":1900000000}`) + ".sig"},
		{name: "missing expiry", raw: header + "." + seg(`{"sub":"alice"}`) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			require.ErrorIs(t, err, ErrMalformedCredential)
			require.Nil(t, claims, "no partially populated claims")
		})
	}
}

func TestDecode_IgnoresHeader(t *testing.T) {
	payload := seg(`{"sub":"alice","exp":1900000000}`)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown alg", raw: seg(`{"alg":"XYZ"}`) + "." + payload + ".sig"},
		{name: "missing alg", raw: seg(`{"typ":"JWT"}`) + "." + payload + ".sig"},
		{name: "header not base64url", raw: "%%%." + payload + ".sig"},
		{name: "header not json", raw: seg("{") + "." + payload + ".sig"},
		{name: "empty signature", raw: header + "." + payload + "."},
		{name: "extra segment", raw: header + "." + payload + ".sig.extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
			assert.Equal(t, int64(1_900_000_000), claims.Expiry().Unix())
		})
	}
}

func TestDecode_MintedWithoutRequiredClaims(t *testing.T) {
	noExp := credentialtest.MintClaims(t, jwt.RegisteredClaims{Subject: "alice"})
	_, err := Decode(noExp)
	require.ErrorIs(t, err, ErrMalformedCredential)

	noSub := credentialtest.MintClaims(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	_, err = Decode(noSub)
	require.ErrorIs(t, err, ErrMalformedCredential)
}

func TestClaims_ExpiryNil(t *testing.T) {
	var c *Claims
	require.True(t, c.Expiry().IsZero())
	require.True(t, (&Claims{}).Expiry().IsZero())
}
