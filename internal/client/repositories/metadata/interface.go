// Package metadata is the client's durable key/value store, backed by the
// SQLite metadata table. It plays the role browser local storage plays for
// a web client: small values that must survive restarts.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUsername      = "username"
	KeyCredential    = "credential"
	KeyCookieJar     = "cookie_jar"
	KeyCookieSession = "cookie_session"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key. Implementations join a transaction carried by ctx
// (see dbx.WithTx).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
