// Package provider stores, retrieves and clears the user's credential
// through interchangeable persistence mechanisms.
//
// Two providers exist: StorageProvider keeps a readable credential in the
// local database, CookieProvider relies on an opaque backend cookie held by
// the HTTP client's Jar. A Chain consults them in a fixed priority order so
// callers never care which mechanism the backend currently uses.
// IdentityStore pairs the chain with the stored username and keeps both
// consistent.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Provider is one persistence strategy for a credential.
//
// Acquire returns the readable credential, if any; ok is false when the
// provider has nothing readable (which is always the case for opaque
// cookies). IsPresent reports whether the provider holds a credential at
// all, readable or not.
type Provider interface {
	Name() string
	Acquire(ctx context.Context) (raw string, ok bool, err error)
	Persist(ctx context.Context, raw string) error
	Clear(ctx context.Context) error
	IsPresent(ctx context.Context) (bool, error)
}

// Chain consults providers in priority order.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// NewChainByName orders the given providers by name, e.g. from config.
// Unknown names are an error; providers not named are left out.
func NewChainByName(order []string, providers ...Provider) (*Chain, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	ordered := make([]Provider, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown credential provider %q", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		ordered = append(ordered, p)
	}
	if len(ordered) == 0 {
		return nil, errors.New("no credential providers configured")
	}
	return NewChain(ordered...), nil
}

func (c *Chain) Providers() []Provider {
	return c.providers
}

// Acquire returns the first readable credential. Provider errors do not stop
// the walk; they are reported only when nothing was found.
func (c *Chain) Acquire(ctx context.Context) (string, bool, error) {
	var errs []error
	for _, p := range c.providers {
		raw, ok, err := p.Acquire(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if ok {
			return raw, true, nil
		}
	}
	return "", false, errors.Join(errs...)
}

// IsPresent reports whether any provider holds a credential.
func (c *Chain) IsPresent(ctx context.Context) (bool, error) {
	var errs []error
	for _, p := range c.providers {
		ok, err := p.IsPresent(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}

// Persist hands raw to every provider.
func (c *Chain) Persist(ctx context.Context, raw string) error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Persist(ctx, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Clear clears every provider, attempting all of them even if one fails.
func (c *Chain) Clear(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// reloader is implemented by providers that mirror database rows in memory.
type reloader interface {
	Reload(ctx context.Context) error
}

// reload resyncs in-memory provider state with the database, e.g. after a
// rolled back Clear.
func (c *Chain) reload(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		r, ok := p.(reloader)
		if !ok {
			continue
		}
		if err := r.Reload(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
