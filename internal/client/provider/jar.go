package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/dsatracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dsatracker/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// markerSession is the marker value for an auth cookie without expiry.
const markerSession = "session"

// savedCookie is the persisted form of a backend cookie.
type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c savedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

func (c savedCookie) httpCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

// Jar is an http.CookieJar for the backend origin. Cookies the backend sets
// are kept in a net/http/cookiejar for request matching and mirrored into the
// metadata table so they survive restarts. When the backend sets or clears
// the auth cookie, the jar records a marker holding only its expiry, which
// CookieProvider reads to infer presence without touching the value.
//
// Cookies for other origins are handled in memory only.
type Jar struct {
	mu       sync.Mutex
	origin   *url.URL
	authName string
	repo     metadata.Repository
	log      logging.Logger
	jar      *cookiejar.Jar
	saved    map[string]savedCookie

	now func() time.Time
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never returns a non-nil error.
	j, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return j
}

// NewJar returns a jar for origin (e.g. "http://localhost:8080") treating
// authCookie as the credential cookie.
func NewJar(origin, authCookie string, repo metadata.Repository, log logging.Logger) (*Jar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	return &Jar{
		origin:   &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"},
		authName: authCookie,
		repo:     repo,
		log:      log,
		jar:      newCookieJar(),
		saved:    make(map[string]savedCookie),
		now:      time.Now,
	}, nil
}

func (j *Jar) sameOrigin(u *url.URL) bool {
	return u != nil && u.Scheme == j.origin.Scheme && u.Host == j.origin.Host
}

// Load restores persisted cookies, dropping the expired ones.
func (j *Jar) Load(ctx context.Context) error {
	raw, err := j.repo.Get(ctx, metadata.KeyCookieJar)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var cookies []savedCookie
	if err := json.Unmarshal(raw, &cookies); err != nil {
		j.log.Warn(ctx, "discarding unreadable cookie store", "error", err)
		return j.Reset(ctx)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	restore := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.expired(now) {
			continue
		}
		j.saved[c.Name] = c
		restore = append(restore, c.httpCookie())
	}
	j.jar.SetCookies(j.origin, restore)
	return nil
}

// SetCookies implements http.CookieJar. The in-memory update happens under
// the lock; the database write happens after releasing it, so the jar never
// waits for the database connection while holding its mutex.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	j.jar.SetCookies(u, cookies)
	if !j.sameOrigin(u) {
		j.mu.Unlock()
		return
	}

	now := j.now()
	authSeen, authGone := false, false
	var authExpiry time.Time

	for _, c := range cookies {
		sc := savedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		gone := c.MaxAge < 0 || c.Value == "" || sc.expired(now)

		if gone {
			delete(j.saved, c.Name)
		} else {
			j.saved[c.Name] = sc
		}
		if c.Name == j.authName {
			authSeen, authGone, authExpiry = true, gone, sc.Expires
		}
	}
	snapshot := make([]savedCookie, 0, len(j.saved))
	for _, c := range j.saved {
		snapshot = append(snapshot, c)
	}
	j.mu.Unlock()

	ctx := context.Background()
	if err := j.persist(ctx, snapshot); err != nil {
		j.log.Error(ctx, "persist cookies failed", "error", err)
	}
	if !authSeen {
		return
	}
	if err := j.mark(ctx, authGone, authExpiry); err != nil {
		j.log.Error(ctx, "update session marker failed", "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Reset forgets every cookie and the marker. The rows are deleted first and
// the in-memory cookies are dropped only when that succeeded.
func (j *Jar) Reset(ctx context.Context) error {
	if err := j.repo.Delete(ctx, metadata.KeyCookieJar, metadata.KeyCookieSession); err != nil {
		return err
	}
	j.forget()
	return nil
}

// Reload replaces the in-memory cookies with the persisted ones. Used after a
// transaction that reset the jar was rolled back.
func (j *Jar) Reload(ctx context.Context) error {
	j.forget()
	return j.Load(ctx)
}

func (j *Jar) forget() {
	j.mu.Lock()
	j.jar = newCookieJar()
	j.saved = make(map[string]savedCookie)
	j.mu.Unlock()
}

// HasSession reports whether the marker says an unexpired auth cookie is held.
func (j *Jar) HasSession(ctx context.Context) (bool, error) {
	v, err := j.repo.Get(ctx, metadata.KeyCookieSession)
	if err != nil {
		return false, err
	}
	if len(v) == 0 {
		return false, nil
	}
	if string(v) == markerSession {
		return true, nil
	}
	exp, err := time.Parse(time.RFC3339, string(v))
	if err != nil {
		return false, nil
	}
	return exp.After(j.now()), nil
}

func (j *Jar) persist(ctx context.Context, cookies []savedCookie) error {
	if len(cookies) == 0 {
		return j.repo.Delete(ctx, metadata.KeyCookieJar)
	}
	b, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	return j.repo.Set(ctx, metadata.KeyCookieJar, b)
}

func (j *Jar) mark(ctx context.Context, gone bool, expiry time.Time) error {
	if gone {
		return j.repo.Delete(ctx, metadata.KeyCookieSession)
	}
	marker := markerSession
	if !expiry.IsZero() {
		marker = expiry.UTC().Format(time.RFC3339)
	}
	return j.repo.Set(ctx, metadata.KeyCookieSession, []byte(marker))
}
