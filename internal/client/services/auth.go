// Package services contains application services for the tracker client.
// This file defines the authentication service: startup validation,
// sign-in, registration, sign-out and teardown after the backend rejects
// a request.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dsatracker/internal/client/client"
	"github.com/dmitrijs2005/dsatracker/internal/client/credential"
	"github.com/dmitrijs2005/dsatracker/internal/client/provider"
	"github.com/dmitrijs2005/dsatracker/internal/client/session"
	"github.com/dmitrijs2005/dsatracker/internal/logging"
)

var (
	// ErrIncompleteIdentity means only one of username and credential was stored.
	ErrIncompleteIdentity = errors.New("stored identity is incomplete")
	// ErrSuperseded means another transition happened while a validation
	// was in flight; its result was dropped.
	ErrSuperseded = errors.New("validation superseded")
)

// AuthService is the only writer of the session store and the stored
// identity.
//
// Contract:
//   - Validate: settle the initial session from what is stored on the device.
//   - Login: authenticate against the backend and establish the session.
//   - Establish: adopt a credential for username if its subject matches.
//   - Register / RegisterAndLogin: create an account on the backend.
//   - Logout: clear everything locally, then tell the backend.
//   - Teardown: react to a 401/403 observed by the request gateway.
//   - Describe: diagnostic view of what is stored.
type AuthService interface {
	Validate(ctx context.Context) (session.State, error)
	Login(ctx context.Context, username, password string) error
	Establish(ctx context.Context, raw, username string) error
	Register(ctx context.Context, username, password string) (string, error)
	RegisterAndLogin(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	Teardown(ctx context.Context, status int) bool
	Describe(ctx context.Context) (Diagnostics, error)
}

type Option func(*authService)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *authService) { a.now = now }
}

type authService struct {
	api      client.Client
	identity *provider.IdentityStore
	store    *session.Store
	log      logging.Logger
	now      func() time.Time
}

func NewAuthService(api client.Client, identity *provider.IdentityStore, store *session.Store, log logging.Logger, opts ...Option) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	a := &authService{api: api, identity: identity, store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Validate reads the stored identity, checks it locally and, when it
// passes, confirms it with one backend call. Any failure clears the stored
// identity and leaves the session unauthenticated.
func (a *authService) Validate(ctx context.Context) (session.State, error) {
	epoch := a.store.Epoch()

	id, err := a.identity.Load(ctx)
	if err != nil {
		return a.invalidate(ctx, epoch, true, fmt.Errorf("load identity: %w", err))
	}
	if id.Empty() {
		return a.invalidate(ctx, epoch, false, nil)
	}
	if !id.Complete() {
		return a.invalidate(ctx, epoch, true, ErrIncompleteIdentity)
	}

	// A cookie-only identity has nothing readable to check locally.
	if id.Credential != "" {
		if err := a.checkLocally(id.Credential, id.Username); err != nil {
			return a.invalidate(ctx, epoch, true, err)
		}
	}

	if _, err := a.api.ListQuestions(ctx); err != nil {
		return a.invalidate(ctx, epoch, true, fmt.Errorf("liveness probe: %w", err))
	}

	if !a.store.Authenticate(epoch, id.Username) {
		a.log.Debug(ctx, "validation result dropped", "username", id.Username)
		return a.store.Snapshot(), ErrSuperseded
	}
	a.log.Info(ctx, "session restored", "username", id.Username)
	return a.store.Snapshot(), nil
}

// invalidate clears the stored identity and settles the session, unless a
// newer transition already took over.
func (a *authService) invalidate(ctx context.Context, epoch uint64, expired bool, cause error) (session.State, error) {
	if a.store.Epoch() != epoch {
		a.log.Debug(ctx, "validation result dropped", "error", cause)
		if cause != nil {
			return a.store.Snapshot(), fmt.Errorf("%w: %w", ErrSuperseded, cause)
		}
		return a.store.Snapshot(), ErrSuperseded
	}

	if cause != nil {
		a.log.Warn(ctx, "stored session rejected", "error", cause)
	}
	if err := a.identity.Clear(ctx); err != nil {
		a.log.Error(ctx, "clear stored identity", "error", err)
		cause = errors.Join(cause, err)
	}
	a.store.Settle(epoch, expired)
	return a.store.Snapshot(), cause
}

func (a *authService) checkLocally(raw, username string) error {
	claims, err := credential.Decode(raw)
	if err != nil {
		return err
	}
	return credential.Check(claims, username, a.now())
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	name := resp.Username
	if name == "" {
		name = username
	}
	if err := a.Establish(ctx, resp.Token, name); err != nil {
		// The backend may have set its cookie for the refused credential.
		if lerr := a.api.Logout(ctx); lerr != nil {
			a.log.Debug(ctx, "backend logout after refused login", "error", lerr)
		}
		return err
	}
	return nil
}

// Establish persists raw for username and authenticates the session, but
// only when the credential was issued to username and has not expired.
// Otherwise nothing is persisted and the session is unauthenticated.
func (a *authService) Establish(ctx context.Context, raw, username string) error {
	if err := a.checkLocally(raw, username); err != nil {
		a.log.Warn(ctx, "refusing credential", "username", username, "error", err)
		a.store.Reset(false)
		return err
	}

	if err := a.identity.Save(ctx, username, raw); err != nil {
		a.log.Error(ctx, "save identity", "username", username, "error", err)
		a.store.Reset(false)
		return fmt.Errorf("save identity: %w", err)
	}

	a.store.SignIn(username)
	a.log.Info(ctx, "signed in", "username", username)
	return nil
}

func (a *authService) Register(ctx context.Context, username, password string) (string, error) {
	msg, err := a.api.Register(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	a.log.Info(ctx, "registered", "username", username)
	return msg, nil
}

func (a *authService) RegisterAndLogin(ctx context.Context, username, password string) (string, error) {
	msg, err := a.Register(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := a.Login(ctx, username, password); err != nil {
		return msg, err
	}
	return msg, nil
}

// Logout never reports a backend failure; the local result does not
// depend on the network.
func (a *authService) Logout(ctx context.Context) error {
	var err error
	if cerr := a.identity.Clear(ctx); cerr != nil {
		a.log.Error(ctx, "clear stored identity", "error", cerr)
		err = fmt.Errorf("clear stored identity: %w", cerr)
	}
	if a.store.Reset(false) {
		a.log.Info(ctx, "signed out")
	}

	if lerr := a.api.Logout(ctx); lerr != nil {
		a.log.Debug(ctx, "backend logout failed", "error", lerr)
	}
	return err
}

// Teardown is the gateway's rejection handler. It reports whether a
// session existed before it cleared everything.
func (a *authService) Teardown(ctx context.Context, status int) bool {
	was := a.store.Snapshot().Authenticated
	if !was {
		present, err := a.identity.Chain().IsPresent(ctx)
		if err != nil {
			a.log.Warn(ctx, "credential presence", "error", err)
		}
		was = present
	}

	if err := a.identity.Clear(ctx); err != nil {
		a.log.Error(ctx, "clear stored identity", "error", err)
	}
	a.store.Reset(was)
	a.log.Info(ctx, "session torn down", "status", status, "expired", was)
	return was
}
