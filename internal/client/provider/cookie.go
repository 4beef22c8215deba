package provider

import "context"

const CookieName = "cookie"

// CookieProvider represents the backend's HttpOnly session cookie. The
// cookie is set and cleared by the backend through the Jar; this provider
// never reads its value.
type CookieProvider struct {
	jar *Jar
}

func NewCookieProvider(jar *Jar) *CookieProvider {
	return &CookieProvider{jar: jar}
}

func (p *CookieProvider) Name() string { return CookieName }

// Acquire never yields a value: the cookie is opaque to the client.
func (p *CookieProvider) Acquire(context.Context) (string, bool, error) {
	return "", false, nil
}

// Persist is a no-op; the backend sets the cookie on login.
func (p *CookieProvider) Persist(context.Context, string) error {
	return nil
}

// Clear drops the origin's cookies and the presence marker locally. The
// backend copy is cleared by the logout endpoint.
func (p *CookieProvider) Clear(ctx context.Context) error {
	return p.jar.Reset(ctx)
}

// Reload restores the in-memory cookies from the database.
func (p *CookieProvider) Reload(ctx context.Context) error {
	return p.jar.Reload(ctx)
}

// IsPresent consults the non-sensitive marker kept next to the cookie.
func (p *CookieProvider) IsPresent(ctx context.Context) (bool, error) {
	return p.jar.HasSession(ctx)
}
