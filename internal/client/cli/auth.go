package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dsatracker/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errEmptyInput = errors.New("username and password are required")

func (a *App) promptCredentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	if username == "" || password == "" {
		return "", "", errEmptyInput
	}
	return username, password, nil
}

// Register creates an account and signs straight in.
func (a *App) Register(ctx context.Context) error {
	a.navigate(SurfaceRegister)
	username, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	msg, err := a.auth.RegisterAndLogin(ctx, username, password)
	if msg != "" {
		a.println(msg)
	}
	if err != nil {
		return err
	}
	a.println("Signed in as", username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	a.navigate(SurfaceLogin)
	username, password, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("invalid username or password")
		}
		return err
	}
	a.println("Signed in as", username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.navigate(SurfaceLogin)
	a.println("Signed out")
	return nil
}

// Whoami prints what the device holds, never the credential itself.
func (a *App) Whoami(ctx context.Context) error {
	d, err := a.auth.Describe(ctx)
	if err != nil {
		return err
	}

	switch {
	case d.Session.Authenticated:
		a.println("Session:    signed in as", d.Session.Username)
	case d.Session.Expired:
		a.println("Session:    expired")
	default:
		a.println("Session:    signed out")
	}
	a.println("Username:  ", orDash(d.Username))
	for _, p := range d.Providers {
		a.println(fmt.Sprintf("Provider:   %-8s present=%t", p.Name, p.Present))
	}
	if !d.Readable {
		return nil
	}
	a.println("Subject:   ", orDash(d.Subject))
	if !d.ExpiresAt.IsZero() {
		a.println("Expires:   ", d.ExpiresAt.Format(time.RFC3339))
	}
	if d.DecodeError != nil {
		a.println("Credential: invalid:", d.DecodeError)
	} else {
		a.println("Credential: valid")
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
