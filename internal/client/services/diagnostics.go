package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dsatracker/internal/client/credential"
	"github.com/dmitrijs2005/dsatracker/internal/client/session"
)

// ProviderStatus is whether one provider currently holds a credential.
type ProviderStatus struct {
	Name    string
	Present bool
}

// Diagnostics describes what the device holds. It never includes the
// credential itself.
type Diagnostics struct {
	Session   session.State
	Username  string
	Readable  bool
	Providers []ProviderStatus

	// Decoded from a readable credential.
	Subject     string
	ExpiresAt   time.Time
	DecodeError error
	Valid       bool
}

func (a *authService) Describe(ctx context.Context) (Diagnostics, error) {
	d := Diagnostics{Session: a.store.Snapshot()}

	id, err := a.identity.Load(ctx)
	if err != nil {
		return d, fmt.Errorf("load identity: %w", err)
	}
	d.Username = id.Username
	d.Readable = id.Credential != ""

	for _, p := range a.identity.Chain().Providers() {
		present, err := p.IsPresent(ctx)
		if err != nil {
			return d, fmt.Errorf("%s presence: %w", p.Name(), err)
		}
		d.Providers = append(d.Providers, ProviderStatus{Name: p.Name(), Present: present})
	}

	if !d.Readable {
		return d, nil
	}
	claims, err := credential.Decode(id.Credential)
	if err != nil {
		d.DecodeError = err
		return d, nil
	}
	d.Subject = claims.Subject
	d.ExpiresAt = claims.Expiry()
	if err := credential.Check(claims, id.Username, a.now()); err != nil {
		d.DecodeError = err
	} else {
		d.Valid = true
	}
	return d, nil
}
