// Package gateway is the single path every backend call takes. Transport
// attaches the readable credential and a request id to outgoing requests
// and turns a 401/403 from an authenticated endpoint into a local teardown
// followed by at most one redirect to the sign-in surface.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/dsatracker/internal/logging"
	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	ReasonExpired = "expired"
	ReasonSignIn  = "signin"

	defaultAuthPrefix = "/api/auth/"
)

// CredentialSource yields the readable credential, if any.
type CredentialSource interface {
	Acquire(ctx context.Context) (raw string, ok bool, err error)
}

// Navigator is the UI side of a rejection.
type Navigator interface {
	Current() string
	Redirect(surface, reason string)
}

// RejectionHandler clears local auth state after the backend refused a
// request and reports whether the user had been signed in.
type RejectionHandler func(ctx context.Context, status int) (wasAuthenticated bool)

type Options struct {
	// SignInSurface is where a rejected user is sent.
	SignInSurface string
	// PublicSurfaces never trigger a redirect, the sign-in surface included.
	PublicSurfaces []string
	// AuthPrefix marks endpoints whose 401/403 is a normal answer
	// (bad password, duplicate user) rather than a lost session.
	AuthPrefix string
}

type Transport struct {
	base   http.RoundTripper
	creds  CredentialSource
	log    logging.Logger
	opts   Options
	public map[string]struct{}

	hooksMu  sync.RWMutex
	nav      Navigator
	onReject RejectionHandler

	// redirectMu serialises the check-and-redirect so that a burst of
	// rejected requests yields a single redirect.
	redirectMu sync.Mutex
}

func NewTransport(base http.RoundTripper, creds CredentialSource, log logging.Logger, opts Options) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if log == nil {
		log = logging.Nop()
	}
	if opts.AuthPrefix == "" {
		opts.AuthPrefix = defaultAuthPrefix
	}
	public := make(map[string]struct{}, len(opts.PublicSurfaces)+1)
	for _, s := range opts.PublicSurfaces {
		public[s] = struct{}{}
	}
	if opts.SignInSurface != "" {
		public[opts.SignInSurface] = struct{}{}
	}
	return &Transport{base: base, creds: creds, log: log, opts: opts, public: public}
}

// SetNavigator registers the navigator consulted on rejection.
func (t *Transport) SetNavigator(nav Navigator) {
	t.hooksMu.Lock()
	defer t.hooksMu.Unlock()
	t.nav = nav
}

// OnRejected registers the teardown run before any redirect.
func (t *Transport) OnRejected(h RejectionHandler) {
	t.hooksMu.Lock()
	defer t.hooksMu.Unlock()
	t.onReject = h
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	requestID := out.Header.Get(HeaderRequestID)

	if out.Header.Get(HeaderAuthorization) == "" && t.creds != nil {
		raw, ok, err := t.creds.Acquire(ctx)
		switch {
		case err != nil:
			t.log.Warn(ctx, "credential unavailable", "request_id", requestID, "error", err)
		case ok && raw != "":
			out.Header.Set(HeaderAuthorization, "Bearer "+raw)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if isRejection(resp.StatusCode) && !strings.Contains(out.URL.Path, t.opts.AuthPrefix) {
		t.log.Warn(ctx, "request rejected",
			"status", resp.StatusCode,
			"path", out.URL.Path,
			"request_id", requestID,
		)
		t.reject(context.WithoutCancel(ctx), resp.StatusCode)
	}

	return resp, nil
}

func isRejection(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func (t *Transport) reject(ctx context.Context, status int) {
	t.hooksMu.RLock()
	nav, onReject := t.nav, t.onReject
	t.hooksMu.RUnlock()

	wasAuthenticated := false
	if onReject != nil {
		wasAuthenticated = onReject(ctx, status)
	}

	if nav == nil || t.opts.SignInSurface == "" {
		return
	}

	t.redirectMu.Lock()
	defer t.redirectMu.Unlock()

	if _, ok := t.public[nav.Current()]; ok {
		return
	}
	reason := ReasonSignIn
	if wasAuthenticated {
		reason = ReasonExpired
	}
	t.log.Info(ctx, "redirecting to sign-in", "reason", reason)
	nav.Redirect(t.opts.SignInSurface, reason)
}
